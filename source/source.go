// Package source provides Device Source implementations: readers that hand
// raw HID report bytes to the polling loop without blocking it.
package source

import (
	"errors"
	"io"
	"sync"
)

// ErrDeviceNotFound is returned when no matching device is attached.
var ErrDeviceNotFound = errors.New("device not found")

// Source yields raw report bytes. Read must not block: when nothing arrived
// since the last call it returns 0, nil. Any error ends the run.
type Source interface {
	Read(p []byte) (int, error)
	Close() error
}

// chunk is one completed background read.
type chunk struct {
	data []byte
	err  error
}

// async adapts a blocking reader into a Source. A single goroutine performs
// the blocking reads and queues their results; Read only drains the queue.
type async struct {
	r       io.ReadCloser
	ch      chan chunk
	pending []byte
	err     error

	closeOnce sync.Once
	done      chan struct{}
}

func newAsync(r io.ReadCloser, bufSize, queue int) *async {
	a := &async{
		r:    r,
		ch:   make(chan chunk, queue),
		done: make(chan struct{}),
	}
	go a.pump(bufSize)
	return a
}

func (a *async) pump(bufSize int) {
	defer close(a.ch)
	for {
		buf := make([]byte, bufSize)
		n, err := a.r.Read(buf)
		if n > 0 {
			select {
			case a.ch <- chunk{data: buf[:n]}:
			case <-a.done:
				return
			}
		}
		if err != nil {
			select {
			case a.ch <- chunk{err: err}:
			case <-a.done:
			}
			return
		}
	}
}

// Read copies queued bytes into p. Whole queued reads are packed until p is
// full; a read that does not fit is kept for the next call.
func (a *async) Read(p []byte) (int, error) {
	if a.err != nil {
		return 0, a.err
	}
	n := 0
	if len(a.pending) > 0 {
		c := copy(p, a.pending)
		a.pending = a.pending[c:]
		n += c
		if len(a.pending) > 0 {
			return n, nil
		}
	}
	for n < len(p) {
		select {
		case c, ok := <-a.ch:
			if !ok {
				if n == 0 {
					a.err = io.ErrClosedPipe
					return 0, a.err
				}
				return n, nil
			}
			if c.err != nil {
				a.err = c.err
				if n > 0 {
					return n, nil
				}
				return 0, a.err
			}
			if n > 0 && len(c.data) > len(p)-n {
				// Keep reports aligned: never split a queued read across calls
				// unless it alone exceeds p.
				a.pending = c.data
				return n, nil
			}
			k := copy(p[n:], c.data)
			n += k
			if k < len(c.data) {
				a.pending = c.data[k:]
				return n, nil
			}
		default:
			return n, nil
		}
	}
	return n, nil
}

func (a *async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.done)
		err = a.r.Close()
	})
	return err
}
