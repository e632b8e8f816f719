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
	"fmt"

	"github.com/fatih/color"
	"github.com/k1LoW/iconstub"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "list the chunks of PNG files",
	Long: `list the chunks of PNG files.

Only the chunk framing is read. Each integrity field is reported as ok, placeholder or mismatch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, f := range args {
			chunks, err := iconstub.ReadChunksFile(f)
			if err != nil {
				return fmt.Errorf("failed to inspect %s: %w", f, err)
			}
			if i > 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), f)
			for _, c := range chunks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s %6d  %08x  %s\n", c.Type, len(c.Data), c.CRC, crcStatus(c))
			}
		}
		return nil
	},
}

func crcStatus(c *iconstub.Chunk) string {
	switch {
	case c.ValidCRC():
		return color.GreenString("ok")
	case c.CRC == iconstub.PlaceholderCRC:
		return color.YellowString("placeholder")
	default:
		return color.RedString("mismatch")
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
