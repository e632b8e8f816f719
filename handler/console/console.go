package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
	red   = color.New(color.FgRed, color.Bold).SprintFunc()
)

var _ slog.Handler = (*consoleHandler)(nil)

type consoleHandler struct {
	handler slog.Handler
	spinner *spinner.Spinner
	stdout  io.Writer
	mu      *sync.Mutex
}

// New returns a handler that prints emitter progress to the colorable stdout.
func New(h slog.Handler) (_ *consoleHandler, err error) {
	return NewWithWriter(h, colorable.NewColorableStdout())
}

func NewWithWriter(h slog.Handler, w io.Writer) (_ *consoleHandler, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	if err := s.Color("yellow"); err != nil {
		return nil, err
	}
	s.Start()
	s.Disable()
	return &consoleHandler{
		handler: h,
		spinner: s,
		stdout:  w,
		mu:      &sync.Mutex{},
	}, nil
}

func (h *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *consoleHandler) Handle(ctx context.Context, r slog.Record) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	h.mu.Lock()
	defer h.mu.Unlock()

	if r.Message == "writing file" {
		if !h.spinner.Enabled() {
			h.spinner.Enable()
		}
		return nil
	}
	if h.spinner.Enabled() {
		h.spinner.Disable()
	}
	path := attrString(r, "path")
	switch {
	case r.Message == "created file":
		return h.write(fmt.Sprintf("%s %s\n", green("Created"), path))
	case r.Message == "watching config":
		return h.write(gray(fmt.Sprintf("Watching %s\n", path)))
	case r.Message == "config changed":
		return h.write(gray(fmt.Sprintf("Changed %s\n", path)))
	case strings.HasPrefix(r.Message, "failed to"):
		msg := r.Message
		if path != "" {
			msg = fmt.Sprintf("%s: %s", msg, path)
		}
		if e := attrString(r, "error"); e != "" {
			msg = fmt.Sprintf("%s: %s", msg, e)
		}
		return h.write(fmt.Sprintf("%s %s\n", red("!"), msg))
	}
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{handler: h.handler.WithAttrs(attrs), spinner: h.spinner, stdout: h.stdout, mu: h.mu}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{handler: h.handler.WithGroup(name), spinner: h.spinner, stdout: h.stdout, mu: h.mu}
}

// Close stops the spinner.
func (h *consoleHandler) Close() {
	h.spinner.Stop()
}

func (h *consoleHandler) write(s string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	_, err = io.WriteString(h.stdout, s)
	return err
}

func attrString(r slog.Record, key string) string {
	var v string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			v = attr.Value.String()
			return false
		}
		return true
	})
	return v
}
