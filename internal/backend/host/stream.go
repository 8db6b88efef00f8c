package host

import "sync"

// stream is an ordered execution stream: submitted operations run one at
// a time, in submission order, on a dedicated goroutine. Submission
// never blocks on execution, so stream order serializes a copy, the
// GEMM that consumes it, and the copy-back without explicit waits.
//
// The first execution error is recorded and every later operation is
// skipped; Synchronize surfaces it.
type stream struct {
	ops chan streamOp

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// streamOp is either work (fn set) or a synchronization barrier
// (barrier set). Barriers run even after a recorded error.
type streamOp struct {
	fn      func() error
	barrier chan struct{}
}

func newStream() *stream {
	s := &stream{
		ops: make(chan streamOp, 64),
	}
	go s.run()
	return s
}

func (s *stream) run() {
	for op := range s.ops {
		if op.barrier != nil {
			close(op.barrier)
			continue
		}
		if s.Err() != nil {
			continue
		}
		if err := op.fn(); err != nil {
			s.setErr(err)
		}
	}
}

// Submit enqueues an operation and returns immediately.
func (s *stream) Submit(fn func() error) {
	s.ops <- streamOp{fn: fn}
}

// Synchronize blocks until every previously submitted operation has
// executed and returns the first recorded execution error.
func (s *stream) Synchronize() error {
	done := make(chan struct{})
	s.ops <- streamOp{barrier: done}
	<-done
	return s.Err()
}

// Close drains the stream and stops its goroutine. Submitting after
// Close is a caller bug.
func (s *stream) Close() {
	s.closeOnce.Do(func() {
		close(s.ops)
	})
}

func (s *stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *stream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
