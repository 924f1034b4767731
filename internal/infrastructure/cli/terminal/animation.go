// Package terminal renders the feedback channels on a text terminal.
package terminal

import (
	"sync"
	"time"
)

var pulseFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// animation redraws a single status line until cancelled.
type animation struct {
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// startAnimation calls frame(i) every interval until Cancel. frame returning
// false ends the animation early.
func startAnimation(interval time.Duration, frame func(i int) bool) *animation {
	a := &animation{stop: make(chan struct{})}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			if !frame(i) {
				return
			}
			select {
			case <-a.stop:
				return
			case <-ticker.C:
			}
		}
	}()
	return a
}

// Cancel stops the animation and waits for the last frame to finish.
func (a *animation) Cancel() {
	a.once.Do(func() { close(a.stop) })
	a.wg.Wait()
}
