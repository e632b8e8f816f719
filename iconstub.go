package iconstub

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/k1LoW/errors"
)

// Emitter writes stub PNG files.
type Emitter struct {
	mode      CRCMode
	outputDir string
	logger    *slog.Logger
}

type Option func(*Emitter) error

func WithCRCMode(mode CRCMode) Option {
	return func(e *Emitter) error {
		if mode != CRCPlaceholder && mode != CRCComputed {
			return &UnknownCRCModeError{Mode: mode.String()}
		}
		e.mode = mode
		return nil
	}
}

// WithOutputDir writes relative descriptor paths under dir. The directory is created on first emit.
func WithOutputDir(dir string) Option {
	return func(e *Emitter) error {
		e.outputDir = dir
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) error {
		if logger == nil {
			return fmt.Errorf("logger is nil")
		}
		e.logger = logger
		return nil
	}
}

// New creates a new Emitter.
func New(opts ...Option) (_ *Emitter, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	e := &Emitter{
		mode:   CRCPlaceholder,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// CRCMode returns the integrity field mode of the emitter.
func (e *Emitter) CRCMode() CRCMode {
	return e.mode
}

// Path returns the file path the descriptor is written to.
func (e *Emitter) Path(d Descriptor) string {
	if e.outputDir == "" || filepath.IsAbs(d.Path) {
		return d.Path
	}
	return filepath.Join(e.outputDir, d.Path)
}

// WriteTo writes the stub bytes for d to w.
func (e *Emitter) WriteTo(w io.Writer, d Descriptor) (_ int64, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	n, err := w.Write(Encode(d.Width, d.Height, e.mode))
	return int64(n), err
}

// Emit writes the stub for d to its path, overwriting any existing file.
func (e *Emitter) Emit(ctx context.Context, d Descriptor) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	p := e.Path(d)
	e.logger.Info("writing file", slog.String("path", p), slog.Uint64("width", uint64(d.Width)), slog.Uint64("height", uint64(d.Height)), slog.String("crc", e.mode.String()))
	if e.outputDir != "" {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			e.logger.Error("failed to create output directory", slog.String("path", p), slog.String("error", err.Error()))
			return fmt.Errorf("failed to create output directory for %s: %w", p, err)
		}
	}
	if err := writeFileAtomic(p, Encode(d.Width, d.Height, e.mode)); err != nil {
		e.logger.Error("failed to write file", slog.String("path", p), slog.String("error", err.Error()))
		return err
	}
	e.logger.Info("created file", slog.String("path", p), slog.Int("bytes", StubSize))
	return nil
}

// EmitAll emits ds in order and stops at the first failure.
func (e *Emitter) EmitAll(ctx context.Context, ds []Descriptor) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	for _, d := range ds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Emit(ctx, d); err != nil {
			return err
		}
	}
	e.logger.Info("emit completed", slog.Int("files", len(ds)))
	return nil
}
