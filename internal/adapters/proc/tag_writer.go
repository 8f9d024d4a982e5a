package proc

import (
	"bytes"
	"sync"

	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/zerr"
)

// tagWriter forwards process output to the logger one line at a time,
// prefixed with the process tag so output stays attributable when many
// processes run concurrently. Partial writes are buffered until a newline
// arrives.
type tagWriter struct {
	logger ports.Logger
	tag    string
	stderr bool

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *tagWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, rest, found := bytes.Cut(w.buf.Bytes(), []byte{'\n'})
		if !found {
			break
		}
		w.emit(string(line))
		remaining := bytes.Clone(rest)
		w.buf.Reset()
		w.buf.Write(remaining)
	}
	return len(p), nil
}

// Flush emits any buffered partial line. Called once the process exits.
func (w *tagWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *tagWriter) emit(line string) {
	msg := "[" + w.tag + "] " + line
	if w.stderr {
		w.logger.Error(zerr.New(msg))
	} else {
		w.logger.Info(msg)
	}
}
