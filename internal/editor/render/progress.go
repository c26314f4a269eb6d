// Package render drives the simulated final render and produces the views the
// external rendering collaborator consumes: a floor-plan SVG and a 3D scene
// description built from the same store snapshot.
package render

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ============================================================
// Render progress job
// ============================================================

const (
	DefaultTick  = 200 * time.Millisecond
	ProgressStep = 10
	ProgressDone = 100
)

type Status struct {
	Rendering bool `json:"isRendering"`
	Progress  int  `json:"renderProgress"`
}

// Job периодически увеличивает прогресс рендера на ProgressStep до ProgressDone.
// Остановка через Stop, отмену контекста или Close; горутина всегда завершается.
type Job struct {
	mu       sync.Mutex
	tick     time.Duration
	log      *zap.Logger
	progress int
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewJob(tick time.Duration, log *zap.Logger) *Job {
	if tick <= 0 {
		tick = DefaultTick
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Job{tick: tick, log: log}
}

// Start запускает рендер с нуля; уже идущий рендер перезапускается.
func (j *Job) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	defer j.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	j.progress = 0
	j.running = true
	j.cancel = cancel
	j.done = done

	go j.run(runCtx, done)
	j.log.Debug("render started")
}

func (j *Job) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.mu.Lock()
			if j.done == done {
				j.running = false
				j.progress = 0
			}
			j.mu.Unlock()
			return

		case <-ticker.C:
			j.mu.Lock()
			if j.done != done {
				j.mu.Unlock()
				return
			}
			if j.progress >= ProgressDone {
				j.running = false
				j.mu.Unlock()
				j.log.Debug("render finished")
				return
			}
			j.progress += ProgressStep
			j.mu.Unlock()
		}
	}
}

// Stop прерывает рендер и сбрасывает прогресс. Возвращается после выхода горутины.
func (j *Job) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel = nil
	j.done = nil
	j.running = false
	j.progress = 0
	j.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Close то же, что Stop; вызывается при закрытии сессии.
func (j *Job) Close() {
	j.Stop()
}

func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Status{Rendering: j.running, Progress: j.progress}
}

// Done закрывается, когда текущий запуск завершён. Для незапущенного job
// возвращает закрытый канал.
func (j *Job) Done() <-chan struct{} {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return j.done
}
