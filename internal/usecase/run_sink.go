package usecase

import (
	"context"
	"sync"
	"time"

	"PremCast/internal/domain/models"
)

// RunSink buffers completed runs off the request path and flushes them to
// the history backend in batches, by size or by timeout, whichever comes
// first. The buffer channel is never closed: producers may race Stop (a
// late websocket frame during shutdown), so shutdown is signalled through
// a separate channel and the flush loop drains whatever is buffered.
type RunSink struct {
	processor *RunProcessor
	ch        chan *models.ProjectionRun
	batchSize int
	batchTO   time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

// NewRunSink creates a sink with the given buffer and batching parameters.
func NewRunSink(processor *RunProcessor, bufferSize, batchSize int, batchTimeout time.Duration) *RunSink {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if batchSize <= 0 {
		batchSize = 32
	}
	if batchTimeout <= 0 {
		batchTimeout = 2 * time.Second
	}
	return &RunSink{
		processor: processor,
		ch:        make(chan *models.ProjectionRun, bufferSize),
		batchSize: batchSize,
		batchTO:   batchTimeout,
		stopped:   make(chan struct{}),
	}
}

// Start launches the flush loop.
func (s *RunSink) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.flushLoop(ctx)
}

// Enqueue hands a run to the sink without blocking. Returns false when the
// sink is stopped or the buffer is full and the run is dropped.
func (s *RunSink) Enqueue(run *models.ProjectionRun) bool {
	select {
	case <-s.stopped:
		return false
	default:
	}
	select {
	case s.ch <- run:
		return true
	case <-s.stopped:
		return false
	default:
		return false
	}
}

// Stop signals the flush loop and waits for it to drain the buffer.
func (s *RunSink) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stopped)
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (s *RunSink) flushLoop(ctx context.Context) {
	defer s.wg.Done()

	batch := make([]*models.ProjectionRun, 0, s.batchSize)
	timer := time.NewTimer(s.batchTO)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		fctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = s.processor.ProcessBatch(fctx, batch)
		cancel()
		batch = batch[:0]
	}

	drain := func() {
		for {
			select {
			case run := <-s.ch:
				batch = append(batch, run)
				if len(batch) >= s.batchSize {
					flush()
				}
			default:
				flush()
				return
			}
		}
	}

	for {
		select {
		case run := <-s.ch:
			batch = append(batch, run)
			if len(batch) >= s.batchSize {
				flush()
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.batchTO)
			}
		case <-timer.C:
			flush()
			timer.Reset(s.batchTO)
		case <-s.stopped:
			drain()
			return
		case <-ctx.Done():
			drain()
			return
		}
	}
}
