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
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/iconstub/config"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "regenerate icons whenever the config file changes",
	Long: `regenerate icons whenever the config file changes.

The icon set is generated once at start and again after each change to the config file.
A failed regeneration is reported and watching continues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, closeLogger, err := newLogger(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeLogger()

		dir := config.ConfigHomePath()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Add(dir); err != nil {
			return err
		}
		logger.Info("watching config", slog.String("path", dir))
		return watch(ctx, w, logger, config.Candidates(profile), func() error {
			cfg, err := config.Load(profile)
			if err != nil {
				return err
			}
			return generate(ctx, cfg, logger)
		})
	},
}

func watch(ctx context.Context, w *fsnotify.Watcher, logger *slog.Logger, candidates []string, regenerate func() error) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := regenerate(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isConfigEvent(ev, candidates) {
				continue
			}
			logger.Info("config changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if err := regenerate(); err != nil {
				logger.Error("failed to regenerate icons", slog.String("error", err.Error()))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func isConfigEvent(ev fsnotify.Event, candidates []string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	for _, c := range candidates {
		if filepath.Clean(ev.Name) == filepath.Clean(c) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
