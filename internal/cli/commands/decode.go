package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cprcheck/internal/cli/application"
)

type decodeConfig struct {
	output string
}

func Decode(app *application.Application) *cobra.Command {
	cfg := decodeConfig{output: "text"}

	cmd := &cobra.Command{
		Use:   "decode [NUMBER...]",
		Short: "decode numbers given as arguments, or one per line on stdin",
		Long: `Decode reports the checksum validity, birthday, sex and age encoded in each
number. Numbers are never echoed back; output shows a redacted placeholder.

Exits non-zero when any input is not a well-formed number. A failing checksum
is reported, not treated as an error.`,
		Args:    validateOutput(&cfg.output),
		PreRunE: app.Setup(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				return runDecode(ctx, app, cfg, args)
			})
		},
	}

	commonConfiguration(cmd)

	cmd.Flags().StringVarP(&cfg.output, "output", "o", cfg.output, "the format to show the results (allowable: [text json])")

	return cmd
}

func runDecode(ctx context.Context, app *application.Application, cfg decodeConfig, args []string) error {
	inputs := args
	if len(inputs) == 0 {
		lines, err := readLines(app.In())
		if err != nil {
			return err
		}
		inputs = lines
	}
	if len(inputs) == 0 {
		return errors.New("no numbers given")
	}

	outcomes, err := app.Service.DecodeBatch(ctx, inputs)
	if err != nil {
		return err
	}

	results := newResults(outcomes)
	if err := writeResults(app.Out(), cfg.output, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs could not be decoded", failed, len(results))
	}
	return nil
}
