package profiler

import (
	"fmt"
	"log"
	"runtime"
	"time"
)

// Sample is the frame statistics of one completed interval.
type Sample struct {
	FPS       float64
	FrameTime time.Duration
	Frames    int

	// Memory fields are zero unless memory statistics are enabled.
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	MaxPauseUs  uint64
}

// String formats the sample the way Tick logs it.
func (s Sample) String() string {
	out := fmt.Sprintf("FPS: %.1f (%.2f ms/frame)", s.FPS, float64(s.FrameTime.Microseconds())/1000)
	if s.GCCount > 0 || s.HeapMB > 0 {
		out += fmt.Sprintf(" | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max pause: %d µs)",
			s.HeapMB, s.AllocRateMB, s.GCCount, s.MaxPauseUs)
	}
	return out
}

// Profiler counts frames and reports the frame rate once per interval.
type Profiler struct {
	now      func() time.Time
	logf     func(format string, args ...any)
	interval time.Duration
	memory   bool

	frames int
	start  time.Time
	last   Sample

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler that logs once per second with the "[Profiler]" tag.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:      time.Now,
		logf:     log.Printf,
		interval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	p.start = p.now()
	return p
}

// Tick should be called once per presented frame. When the interval has elapsed it closes
// the current sample and logs it.
//
// Returns:
//   - bool: true if a sample was completed this tick
func (p *Profiler) Tick() bool {
	p.frames++
	now := p.now()
	elapsed := now.Sub(p.start)
	if elapsed < p.interval {
		return false
	}

	s := Sample{
		Frames:    p.frames,
		FPS:       float64(p.frames) / elapsed.Seconds(),
		FrameTime: elapsed / time.Duration(p.frames),
	}
	if p.memory {
		p.sampleMemory(&s, elapsed)
	}

	p.logf("[Profiler] %s", s)
	p.last = s
	p.frames = 0
	p.start = now
	return true
}

// FPS returns the frame rate of the last completed sample.
func (p *Profiler) FPS() float64 {
	return p.last.FPS
}

// Last returns the last completed sample.
func (p *Profiler) Last() Sample {
	return p.last
}

// sampleMemory fills the heap, allocation rate and GC pause fields.
func (p *Profiler) sampleMemory(s *Sample, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()
	s.GCCount = p.memStats.NumGC

	// PauseNs is a ring of the last 256 pauses
	from := p.lastGCCount
	if s.GCCount-from > 256 {
		from = s.GCCount - 256
	}
	for i := from; i < s.GCCount; i++ {
		s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
