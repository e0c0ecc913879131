package log

import (
	"io"
	"os"

	"gopkg.in/op/go-logging.v1"
)

var format = logging.MustStringFormatter("%{time:15:04:05.000} %{level:.4s} %{module}: %{message}")

// Backend is the single log sink of a process. Module loggers obtained from
// GetLogger share its writer and level.
type Backend struct {
	logging.LeveledBackend

	out io.Closer
}

// New returns a backend writing to file, or to stdout when file is empty.
// When disable is set every record is dropped.
func New(file, level string, disable bool) (*Backend, error) {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return nil, err
	}

	var (
		w   io.Writer
		out io.Closer
	)
	switch {
	case disable:
		w = io.Discard
	case file == "":
		w = os.Stdout
	default:
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		w, out = f, f
	}

	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format))
	leveled.SetLevel(lvl, "")
	return &Backend{LeveledBackend: leveled, out: out}, nil
}

// GetLogger returns a logger for module.
func (b *Backend) GetLogger(module string) *logging.Logger {
	l := logging.MustGetLogger(module)
	l.SetBackend(b)
	return l
}

// Close closes the log file, if there is one.
func (b *Backend) Close() error {
	if b.out == nil {
		return nil
	}
	return b.out.Close()
}

// Discard returns a logger that drops every record.
func Discard(module string) *logging.Logger {
	l := logging.MustGetLogger(module)
	l.SetBackend(logging.AddModuleLevel(logging.NewLogBackend(io.Discard, "", 0)))
	return l
}
