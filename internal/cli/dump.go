package cli

import (
	"bufio"
	"errors"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/chaserCN/utf8csv"
	"github.com/chaserCN/utf8csv/internal/log"
)

var errLimitReached = errors.New("row limit reached")

func newDumpCmd(opts *options) *cobra.Command {
	var (
		format string
		header bool
		limit  int
		outSep string
	)
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the rows of a CSV file as JSON lines or re-encoded CSV",
		Long: "Print the rows of a CSV file. With no file, or when file is -, standard input is read.\n" +
			"JSON output writes one array per row, or one object per row keyed by the first row with --header.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			var sink rowSink
			switch format {
			case "json":
				sink = &jsonSink{out: bufio.NewWriter(cmd.OutOrStdout()), header: header}
			case "csv":
				if outSep == "" {
					outSep = opts.delimiter
				}
				delimiter, err := parseDelimiter(outSep)
				if err != nil {
					return err
				}
				w := utf8csv.NewWriter(cmd.OutOrStdout())
				w.Delimiter = delimiter
				sink = &csvSink{w: w}
			default:
				return fmt.Errorf("unknown format %q: want json or csv", format)
			}

			src, err := opts.openSource(cmd, name)
			if err != nil {
				return err
			}
			defer src.Close()

			ctx := log.AddTags(cmd.Context(), "input", name)
			rows := 0
			p := utf8csv.NewParser(opts.parserOptions()...)
			err = p.Parse(ctx, src, func(row []string) error {
				if limit > 0 && rows >= limit {
					return errLimitReached
				}
				rows++
				return sink.write(row)
			})
			if err != nil && !errors.Is(err, errLimitReached) {
				return err
			}
			log.Debugf(ctx, "dumped %d rows", rows)
			return sink.flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	cmd.Flags().BoolVar(&header, "header", false, "treat the first row as field names (json only)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many rows; 0 prints all")
	cmd.Flags().StringVar(&outSep, "output-delimiter", "", "delimiter for csv output; defaults to --delimiter")
	return cmd
}

type rowSink interface {
	write(row []string) error
	flush() error
}

type jsonSink struct {
	out    *bufio.Writer
	header bool
	names  []string
}

func (s *jsonSink) write(row []string) error {
	var (
		data []byte
		err  error
	)
	switch {
	case !s.header:
		data, err = json.Marshal(row)
	case s.names == nil:
		s.names = slices.Clone(row)
		return nil
	default:
		obj := make(map[string]string, len(row))
		for i, v := range row {
			key := fmt.Sprintf("column%d", i+1)
			if i < len(s.names) {
				key = s.names[i]
			}
			obj[key] = v
		}
		data, err = json.Marshal(obj)
	}
	if err != nil {
		return err
	}
	if _, err := s.out.Write(data); err != nil {
		return err
	}
	return s.out.WriteByte('\n')
}

func (s *jsonSink) flush() error {
	return s.out.Flush()
}

type csvSink struct {
	w *utf8csv.Writer
}

func (s *csvSink) write(row []string) error {
	return s.w.Write(row)
}

func (s *csvSink) flush() error {
	return s.w.Flush()
}
