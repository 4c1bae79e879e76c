package rest

import (
	"sync"
	"sync/atomic"
)

// Progress watches a long running transfer in background.
type Progress[T any] interface {
	// EstimatedTotalSize returns the total size of files to be transferred.
	EstimatedTotalSize() int64

	// ProgressedSize returns the size transferred so far.
	ProgressedSize() int64

	// ProgressingFile returns a file which is currently in flight.
	ProgressingFile() string

	// Error returns error caused during the transfer.
	Error() error

	// Result returns the value the transfer has produced.
	//
	// The value is valid only after Done is closed and Error is nil.
	Result() (T, bool)

	// Sent returns a channel which is closed when all payload bytes are sent.
	Sent() <-chan struct{}

	// Done returns a channel which is closed when the whole transfer is done.
	Done() <-chan struct{}
}

// progress is updated from transfer workers concurrently.
type progress[T any] struct {
	totalSize int64
	doneSize  atomic.Int64

	mu   sync.Mutex
	file string

	err    error
	result *T
	sent   chan struct{}
	done   chan struct{}
}

func newProgress[T any]() *progress[T] {
	return &progress[T]{
		sent: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (p *progress[T]) EstimatedTotalSize() int64 {
	return p.totalSize
}

func (p *progress[T]) ProgressedSize() int64 {
	return p.doneSize.Load()
}

func (p *progress[T]) progressed(n int64) {
	p.doneSize.Add(n)
}

func (p *progress[T]) ProgressingFile() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file
}

func (p *progress[T]) setProgressingFile(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.file = name
}

func (p *progress[T]) Error() error {
	return p.err
}

func (p *progress[T]) Result() (T, bool) {
	if p.result == nil {
		return *new(T), false
	}
	return *p.result, true
}

func (p *progress[T]) Sent() <-chan struct{} {
	return p.sent
}

func (p *progress[T]) Done() <-chan struct{} {
	return p.done
}

// fail records err (first one wins) for the caller to pick up at Done.
func (p *progress[T]) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
