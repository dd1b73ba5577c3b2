package profiler

import "time"

// ProfilerBuilderOption is a functional option applied by NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often a sample is completed and logged.
//
// Parameters:
//   - d: the sampling interval, values below one millisecond are raised to it
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.interval = max(d, time.Millisecond)
	}
}

// WithClock replaces time.Now.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the clock option to a profiler
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithLogger replaces log.Printf as the sample sink.
//
// Parameters:
//   - logf: the printf-style sink
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the logger option to a profiler
func WithLogger(logf func(format string, args ...any)) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logf = logf
	}
}

// WithMemoryStats adds heap and GC figures to every sample.
//
// Parameters:
//   - enabled: true to read runtime memory statistics at each sample
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the memory option to a profiler
func WithMemoryStats(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.memory = enabled
	}
}
