package pdf

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/invoicegen-api/internal/application/billing"
)

// ErrEngineClosed sesión usada después de Close.
var ErrEngineClosed = errors.New("pdf: sesión del motor ya liberada")

// Generator construye los bytes del documento.
type Generator interface {
	Generate(doc billing.DocumentData) ([]byte, error)
}

// Observer recibe las métricas del motor. Puede ser nil.
type Observer interface {
	ObserveRender(d time.Duration, err error)
	SessionOpened()
	SessionClosed()
}

// Engine limita cuántos renders corren a la vez y cuánto puede durar cada uno.
type Engine struct {
	sem      *semaphore.Weighted
	gen      Generator
	timeout  time.Duration
	observer Observer
}

var _ billing.DocumentRenderer = (*Engine)(nil)

// NewEngine construye el motor. concurrency < 1 se trata como 1; timeout 0 desactiva el límite.
func NewEngine(gen Generator, concurrency int, timeout time.Duration, observer Observer) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		sem:      semaphore.NewWeighted(int64(concurrency)),
		gen:      gen,
		timeout:  timeout,
		observer: observer,
	}
}

// Acquire ocupa un cupo del motor; bloquea hasta que haya uno libre o ctx termine.
func (e *Engine) Acquire(ctx context.Context) (billing.RenderSession, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("pdf: esperando cupo del motor: %w", err)
	}
	if e.observer != nil {
		e.observer.SessionOpened()
	}
	return &session{engine: e}, nil
}

// session conserva el cupo mientras siga abierta o tenga una generación en curso.
type session struct {
	engine   *Engine
	mu       sync.Mutex
	closed   bool
	inFlight int
	released bool
}

// Render genera el documento respetando el timeout del motor. Si vence, la
// generación en curso sigue hasta terminar y su resultado se descarta; el cupo
// no se libera hasta entonces.
func (s *session) Render(ctx context.Context, doc billing.DocumentData) ([]byte, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrEngineClosed
	}
	s.inFlight++
	s.mu.Unlock()

	e := s.engine
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type result struct {
		content []byte
		err     error
	}
	start := time.Now()
	done := make(chan result, 1)
	go func() {
		content, err := e.gen.Generate(doc)
		s.finish()
		done <- result{content, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = result{err: fmt.Errorf("pdf: render cancelado: %w", ctx.Err())}
	}
	if e.observer != nil {
		e.observer.ObserveRender(time.Since(start), res.err)
	}
	return res.content, res.err
}

// Close cierra la sesión. El cupo vuelve al motor cuando además termina la
// última generación en curso. Llamadas repetidas no tienen efecto.
func (s *session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.releaseLocked()
	s.mu.Unlock()

	if s.engine.observer != nil {
		s.engine.observer.SessionClosed()
	}
	return nil
}

func (s *session) finish() {
	s.mu.Lock()
	s.inFlight--
	s.releaseLocked()
	s.mu.Unlock()
}

func (s *session) releaseLocked() {
	if s.closed && s.inFlight == 0 && !s.released {
		s.released = true
		s.engine.sem.Release(1)
	}
}
