// Package cli implements the utf8csv command line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chaserCN/utf8csv"
)

type options struct {
	delimiter string
	chunkSize int
	strict    bool
	verbose   bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "utf8csv",
		Short:         "Stream and inspect delimited UTF-8 CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			_, err := parseDelimiter(opts.delimiter)
			return err
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.delimiter, "delimiter", "d", ";", `field delimiter, a single ASCII byte or "\t"`)
	flags.IntVar(&opts.chunkSize, "chunk-size", utf8csv.DefaultChunkSize, "bytes read from the input per chunk")
	flags.BoolVar(&opts.strict, "strict", false, "fail on input that ends inside a quoted field")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDumpCmd(opts), newCheckCmd(opts))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseDelimiter(s string) (byte, error) {
	switch s {
	case `\t`, "tab":
		return '\t', nil
	}
	if len(s) != 1 || s[0] == '"' || s[0] == '\n' || s[0] >= 0x80 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single ASCII byte other than quote and newline", s)
	}
	return s[0], nil
}

func (o *options) parserOptions() []utf8csv.Option {
	delimiter, _ := parseDelimiter(o.delimiter)
	return []utf8csv.Option{
		utf8csv.WithDelimiter(delimiter),
		utf8csv.WithStrictQuotes(o.strict),
		utf8csv.WithReuseRow(true),
	}
}

// openSource opens name, or stdin when name is "-".
func (o *options) openSource(cmd *cobra.Command, name string) (utf8csv.ChunkSource, error) {
	if name == "-" {
		return utf8csv.NewReaderSource(io.NopCloser(cmd.InOrStdin()), o.chunkSize), nil
	}
	return utf8csv.OpenFile(name, o.chunkSize)
}
