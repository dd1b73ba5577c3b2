package engine

import (
	"log"
	"time"
)

func (e *engineContext) Run() {
	e.taskMu.Lock()
	e.running = true
	e.taskMu.Unlock()

	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()

	if e.window != nil {
		// Quit closes the window from the message loop once the render goroutine is done
		// with the surface.
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				e.wg.Wait()
				if err := e.window.Close(); err != nil {
					log.Printf("[Engine] close window: %v", err)
				}
			default:
			}
		})
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()

	e.taskMu.Lock()
	e.running = false
	e.taskMu.Unlock()
	e.runTasks()
}

func (e *engineContext) Quit() {
	e.signalQuit()
}

func (e *engineContext) Do(fn func()) {
	e.taskMu.Lock()
	if e.running {
		e.tasks = append(e.tasks, fn)
		e.taskMu.Unlock()
		return
	}
	e.taskMu.Unlock()
	fn()
}

// runTasks runs the queued functions in order, including those queued while it runs.
func (e *engineContext) runTasks() {
	for {
		e.taskMu.Lock()
		tasks := e.tasks
		e.tasks = nil
		e.taskMu.Unlock()
		if len(tasks) == 0 {
			return
		}
		for _, fn := range tasks {
			fn()
		}
	}
}

// signalQuit closes the quit channel once.
func (e *engineContext) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleTick paces the tick callback. It only signals the render goroutine; a tick still
// pending when the next one fires is merged into it.
func (e *engineContext) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			select {
			case e.tickSignal <- struct{}{}:
			default:
			}
		}
	}
}

// handleRender owns the scene while Run is active. Each iteration runs a pending tick,
// then the functions queued with Do, then renders a frame, at most once per
// renderFrameLimit. A render error or a panic stops the loop and signals quit.
func (e *engineContext) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastTick := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		start := time.Now()
		select {
		case <-e.tickSignal:
			e.mu.Lock()
			callback := e.tickCallback
			e.mu.Unlock()
			if callback != nil {
				callback(float32(start.Sub(lastTick).Seconds()))
			}
			lastTick = start
		default:
		}
		e.runTasks()

		stats, err := e.RenderFrame()
		if err != nil {
			log.Printf("[Engine] %v", err)
			e.signalQuit()
			return
		}

		e.mu.Lock()
		callback := e.renderCallback
		e.mu.Unlock()
		if callback != nil {
			callback(stats)
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
				select {
				case <-e.quitChannel:
					return
				case <-time.After(remaining):
				}
			}
		}
	}
}
