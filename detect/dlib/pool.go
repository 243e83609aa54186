package dlib

import (
	"sync"
)

// Pool holds multiple Recognizers loaded from the same model directory so
// frames can be processed concurrently.  A single Recognizer serializes
// its dlib calls, so concurrent pipelines check one out per frame.
type Pool struct {
	// pool of recognizers
	recognizers chan *Recognizer
	// size of pool
	size  int
	close sync.Once
}

// NewPool creates a pool of size Recognizers from the given configuration
func NewPool(size int, cfg Config) (*Pool, error) {
	p := &Pool{
		recognizers: make(chan *Recognizer, size),
		size:        size,
	}

	for i := 0; i < size; i++ {
		rec, err := New(cfg)

		if err != nil {
			// close any instances that may have been created before receiving
			// the error
			p.Close()
			return nil, err
		}

		// attach to pool
		p.Return(rec)
	}

	return p, nil
}

// Get a recognizer from the pool, blocking until one is free
func (p *Pool) Get() *Recognizer {
	return <-p.recognizers
}

// Return a recognizer to the pool
func (p *Pool) Return(rec *Recognizer) {
	select {
	case p.recognizers <- rec:
	default:
		// pool is full or closed
	}
}

// Close the pool and all recognizers in it
func (p *Pool) Close() {
	p.close.Do(func() {
		// close channel
		close(p.recognizers)

		// close all recognizers
		for next := range p.recognizers {
			_ = next.Close()
		}
	})
}
