/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/iconstub"
	"github.com/k1LoW/iconstub/config"
	"github.com/k1LoW/iconstub/handler/console"
	"github.com/mattn/go-colorable"
	slogmulti "github.com/samber/slog-multi"
)

const logFileName = "iconstub.log"

// newLogger returns a logger that prints progress to stdout, keeps recent JSON records in the tail buffer
// and appends them to the state log. An unavailable state log is reported on stderr and skipped.
func newLogger(stdout, stderr io.Writer) (_ *slog.Logger, _ func(), err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if f, ok := stdout.(*os.File); ok {
		stdout = colorable.NewColorable(f)
	}
	ch, err := console.NewWithWriter(slog.NewTextHandler(io.Discard, nil), stdout)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	handlers := []slog.Handler{
		ch,
		slog.NewJSONHandler(tb, opts),
	}
	f, err := openStateLog()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s state log disabled: %v\n", color.YellowString("WARNING:"), err)
	} else {
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
	}
	logger := slog.New(slogmulti.Fanout(handlers...))
	return logger, func() {
		ch.Close()
		if f != nil {
			_ = f.Close()
		}
	}, nil
}

func openStateLog() (_ *os.File, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := os.MkdirAll(config.StateHomePath(), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(config.StateHomePath(), logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}

func newEmitter(cfg *config.Config, logger *slog.Logger) (_ *iconstub.Emitter, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	// Command line flag takes precedence
	m := cfg.CRC
	if crc != "" {
		m = crc
	}
	mode, err := iconstub.ParseCRCMode(m)
	if err != nil {
		return nil, err
	}
	dir := cfg.OutputDir
	if outDir != "" {
		dir = outDir
	}
	return iconstub.New(
		iconstub.WithCRCMode(mode),
		iconstub.WithOutputDir(dir),
		iconstub.WithLogger(logger),
	)
}

func generate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	e, err := newEmitter(cfg, logger)
	if err != nil {
		return err
	}
	ds, err := iconSet(cfg, sizes)
	if err != nil {
		return err
	}
	for _, d := range ds {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return e.EmitAll(ctx, ds)
}

// iconSet resolves the descriptors to emit: --size flags, then config icons, then the default set.
func iconSet(cfg *config.Config, sizes []string) ([]iconstub.Descriptor, error) {
	if len(sizes) > 0 {
		var ds []iconstub.Descriptor
		for _, s := range sizes {
			w, h, err := parseSize(s)
			if err != nil {
				return nil, err
			}
			ds = append(ds, iconstub.Descriptor{Width: w, Height: h, Path: iconstub.NameFor(w, h)})
		}
		return ds, nil
	}
	if len(cfg.Icons) > 0 {
		var ds []iconstub.Descriptor
		for _, i := range cfg.Icons {
			h := i.Height
			if h == 0 {
				h = i.Width
			}
			name := i.Name
			if name == "" {
				name = iconstub.NameFor(i.Width, h)
			}
			ds = append(ds, iconstub.Descriptor{Width: i.Width, Height: h, Path: name})
		}
		return ds, nil
	}
	return iconstub.DefaultIconSet(), nil
}

// parseSize parses "N" as NxN or "WxH".
func parseSize(s string) (uint32, uint32, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("invalid size format: %s", s)
	}
	var dims []uint32
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid size: %s", s)
		}
		if v == 0 {
			return 0, 0, fmt.Errorf("size must be positive: %s", s)
		}
		dims = append(dims, uint32(v))
	}
	if len(dims) == 1 {
		return dims[0], dims[0], nil
	}
	return dims[0], dims[1], nil
}
