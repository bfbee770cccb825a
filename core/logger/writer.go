package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter decouples record emission from sink I/O: Write only
// queues a copy of the payload, and a single goroutine fans it out to
// every sink. A slow file sink therefore never stalls a handler.
type asyncWriter struct {
	in       chan []byte
	flushReq chan chan error
	done     chan struct{}
	closing  sync.Once

	mu    sync.Mutex
	sinks []*bufio.Writer
	err   error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	var sinks []*bufio.Writer
	for _, w := range writers {
		if w != nil {
			sinks = append(sinks, bufio.NewWriterSize(w, bufSize))
		}
	}
	aw := &asyncWriter{
		in:       make(chan []byte, 256),
		flushReq: make(chan chan error),
		done:     make(chan struct{}),
		sinks:    sinks,
	}
	go aw.run()
	return aw
}

func (w *asyncWriter) run() {
	for {
		select {
		case p, ok := <-w.in:
			if !ok {
				w.flushSinks()
				close(w.done)
				return
			}
			if err := w.fanOut(p); err != nil {
				w.fail(err)
			}
		case ack := <-w.flushReq:
			ack <- w.flushSinks()
		}
	}
}

// Write queues the payload. It blocks once the queue is full rather
// than dropping records.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	w.in <- buf
	return nil
}

// Flush pushes buffered content out to every sink and waits for it.
func (w *asyncWriter) Flush() error {
	if err := w.firstErr(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushReq <- ack
	return <-ack
}

// Close drains the queue, flushes the sinks, and reports the first
// write error seen over the writer's lifetime.
func (w *asyncWriter) Close() error {
	w.closing.Do(func() { close(w.in) })
	<-w.done
	return w.firstErr()
}

func (w *asyncWriter) fanOut(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sink := range w.sinks {
		if _, err := sink.Write(p); err != nil {
			return err
		}
		if err := sink.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) firstErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *asyncWriter) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}
