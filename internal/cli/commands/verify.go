package commands

import (
	"context"

	"github.com/spf13/cobra"

	"cprcheck/internal/cli/application"
	"cprcheck/internal/platform/config"
)

type verifyConfig struct {
	output          string
	strictChecksum  bool
	allowSubstitute bool
	minimumAge      int
}

func Verify(app *application.Application) *cobra.Command {
	cfg := verifyConfig{output: "text"}

	cmd := &cobra.Command{
		Use:   "verify NUMBER",
		Short: "check one number against the verification policy",
		Long: `Verify decodes a number and applies the policy: checksum strictness, whether
substitute numbers are accepted, and an optional minimum age. Flags override
the CPRCHECK_* environment. Exits non-zero when the number is rejected.`,
		Args: chainArgs(
			cobra.ExactArgs(1),
			validateOutput(&cfg.output),
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				return runVerify(ctx, app, cfg, args[0])
			})
		},
	}

	commonConfiguration(cmd)

	flags := cmd.Flags()
	flags.StringVarP(&cfg.output, "output", "o", cfg.output, "the format to show the results (allowable: [text json])")
	flags.BoolVar(&cfg.strictChecksum, "strict-checksum", false, "reject numbers whose control digit does not match")
	flags.BoolVar(&cfg.allowSubstitute, "allow-substitute", true, "accept substitute (day+60) numbers")
	flags.IntVar(&cfg.minimumAge, "minimum-age", 0, "reject holders younger than this many years (0 disables)")

	// only flags the user set override the environment
	cmd.PreRunE = app.Setup(func(c *config.Config) {
		if flags.Changed("strict-checksum") {
			c.Decode.StrictChecksum = cfg.strictChecksum
		}
		if flags.Changed("allow-substitute") {
			c.Decode.AllowSubstitute = cfg.allowSubstitute
		}
		if flags.Changed("minimum-age") {
			c.Decode.MinimumAge = cfg.minimumAge
		}
	})

	return cmd
}

func runVerify(ctx context.Context, app *application.Application, cfg verifyConfig, text string) error {
	report, err := app.Service.Verify(ctx, text)

	r := newResult(0, report, err)
	r.Status = "accepted"
	if err != nil {
		r.Status = "rejected"
	}
	if werr := writeResults(app.Out(), cfg.output, []result{r}); werr != nil {
		return werr
	}
	return err
}
