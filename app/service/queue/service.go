package queue

import (
	"log/slog"
	"sync"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

// Service serializes tasks per key: tasks submitted under the same key
// run FIFO on a single goroutine, tasks under different keys run
// concurrently. Workers are created lazily and live until shutdown.
type Service struct {
	mu      sync.Mutex
	workers map[string]chan func()
	closed  bool
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		workers: make(map[string]chan func()),
	}, nil
}

func (s *Service) Submit(key string, task func()) {
	defer func() {
		if r := recover(); r != nil {

		}
	}()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	ch, ok := s.workers[key]
	if !ok {
		ch = make(chan func(), bufferSize)
		s.workers[key] = ch

		go run(ch)
	}
	s.mu.Unlock()

	select {
	case ch <- task:
	default:
		slog.Warn("message queue is full", "key", key)
	}
}

func run(ch <-chan func()) {
	for task := range ch {
		task()
	}
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for _, ch := range s.workers {
		close(ch)
	}

	return nil
}
