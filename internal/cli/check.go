package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chaserCN/utf8csv"
	"github.com/chaserCN/utf8csv/internal/log"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Parse CSV files and report row and field counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, name := range args {
				if err := checkFile(cmd, opts, name); err != nil {
					failed++
					failColor.Fprintf(cmd.OutOrStdout(), "FAIL")
					fmt.Fprintf(cmd.OutOrStdout(), " %s: %v\n", name, err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func checkFile(cmd *cobra.Command, opts *options, name string) error {
	src, err := opts.openSource(cmd, name)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx := log.AddTags(cmd.Context(), "input", name)
	var rows, minFields, maxFields int
	p := utf8csv.NewParser(opts.parserOptions()...)
	err = p.Parse(ctx, src, func(row []string) error {
		if rows == 0 || len(row) < minFields {
			minFields = len(row)
		}
		maxFields = max(maxFields, len(row))
		rows++
		return nil
	})
	if err != nil {
		var perr *utf8csv.ParseError
		if errors.As(err, &perr) {
			log.Errorf(ctx, "parse failed at line %d column %d after %d rows", perr.Line, perr.Column, rows)
		}
		return err
	}

	out := cmd.OutOrStdout()
	okColor.Fprintf(out, "ok")
	fmt.Fprintf(out, " %s: %d rows", name, rows)
	if rows > 0 && minFields != maxFields {
		warnColor.Fprintf(out, ", ragged rows with %d to %d fields\n", minFields, maxFields)
		log.Warnf(ctx, "rows have between %d and %d fields", minFields, maxFields)
		return nil
	}
	fmt.Fprintf(out, ", %d fields\n", maxFields)
	log.Infof(ctx, "checked %d rows", rows)
	return nil
}
