package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// Context is a scoped acquisition of a named logger. When a log filename is
// given, the logger writes to that file and Close flushes and releases the
// handle. Without a filename the parent logger is handed back unchanged and
// Close releases nothing.
//
// The zero value is not usable; construct with NewContext and always Close,
// including on error paths.
type Context struct {
	name   string
	logger *slog.Logger
	file   *os.File
}

// NewContext acquires a logger under the given name. If filename is empty,
// the parent logger is used directly. Otherwise the file is created (or
// truncated) and a new logger writing to it is returned.
func NewContext(name string, parent *slog.Logger, filename string) (*Context, error) {
	if filename == "" {
		if parent == nil {
			parent = slog.Default()
		}
		return &Context{name: name, logger: parent}, nil
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("opening log file for %s: %w", name, err)
	}

	logger := slog.New(slog.NewTextHandler(file, nil))
	return &Context{name: name, logger: logger, file: file}, nil
}

// Name returns the identifier this context was acquired under.
func (c *Context) Name() string {
	return c.name
}

// Logger returns the logger owned by this context.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Close flushes and releases the log file, if one was opened. It is safe to
// call more than once.
func (c *Context) Close() error {
	if c.file == nil {
		return nil
	}
	file := c.file
	c.file = nil
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("flushing log file for %s: %w", c.name, err)
	}
	return file.Close()
}
