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
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/iconstub/config"
	"github.com/k1LoW/iconstub/version"
	"github.com/k1LoW/tail"
	"github.com/spf13/cobra"
)

// latest log lines kept for error.json
const tailLines = 100

var tb = tail.New(tailLines)

var (
	profile string
	sizes   []string
	outDir  string
	crc     string
)

var rootCmd = &cobra.Command{
	Use:   "iconstub",
	Short: "iconstub writes placeholder PNG icons",
	Long: `iconstub writes placeholder PNG icons.

Without flags or config it writes icon16.png, icon48.png and icon128.png to the current directory.
The files are PNG-shaped but carry the placeholder CRC 0x4B4B4B4B unless --crc computed is given.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (rev:%s)", version.Version, version.Revision),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closeLogger, err := newLogger(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeLogger()
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}
		return generate(cmd.Context(), cfg, logger)
	},
}

type errorData struct {
	Error       string    `json:"error"`
	LatestLogs  []any     `json:"latest_logs"`
	StackTraces any       `json:"stack_traces"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Revision    string    `json:"revision"`
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// Write stack trace log to state directory
		if _, err := dumpError(err, config.StateHomePath(), tb.Lines()); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

// dumpError writes error.json with the error, its stack traces and the latest log lines to dir.
func dumpError(cause error, dir string, lines []string) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var latestLogs []any
	for _, line := range lines {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			latestLogs = append(latestLogs, line)
		} else {
			latestLogs = append(latestLogs, m)
		}
	}
	d := &errorData{
		Error:       cause.Error(),
		LatestLogs:  latestLogs,
		StackTraces: errors.StackTraces(cause),
		CreatedAt:   time.Now(),
		Version:     version.Version,
		Revision:    version.Revision,
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	dumpPath := filepath.Join(dir, "error.json")
	if err := os.WriteFile(dumpPath, b, 0o600); err != nil {
		return "", fmt.Errorf("failed to write error.json to %s: %w", dumpPath, err)
	}
	return dumpPath, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "", "", "profile name")
	rootCmd.PersistentFlags().StringSliceVarP(&sizes, "size", "s", nil, "icon size as N or WxH (repeatable, replaces the icon set)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out-dir", "o", "", "output directory")
	rootCmd.PersistentFlags().StringVarP(&crc, "crc", "", "", "integrity field mode: placeholder or computed")
}
