package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cprcheck/internal/cli/application"
)

func Root(app *application.Application) *cobra.Command {
	cfg := app.Config

	cmd := &cobra.Command{
		Use:     application.Name,
		Short:   "decode and verify Danish personal identification (CPR) numbers",
		Version: application.ReadBuildInfo().Version,
		Example: `  cprcheck decode 070761-4285
  cat numbers.txt | cprcheck decode -o json
  cprcheck verify --strict-checksum --minimum-age 18 0707614285`,
	}

	commonConfiguration(cmd)

	cmd.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\n", application.Name))

	flags := cmd.PersistentFlags()
	flags.CountVarP(&cfg.Verbosity, "verbose", "v", "increase verbosity (-v = info, -vv = debug)")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "suppress all logging output")
	flags.BoolVar(&cfg.ShowAudit, "audit", false, "print the redacted audit trail to stderr on exit")
	flags.BoolVar(&cfg.ShowMetrics, "metrics", false, "print collected metrics to stderr on exit")

	return cmd
}
