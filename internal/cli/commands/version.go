package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"cprcheck/internal/cli/application"
)

func Version(app *application.Application) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("show %s version information", application.Name),
		Args: chainArgs(
			cobra.NoArgs,
			validateOutput(&format),
		),
		RunE: func(_ *cobra.Command, _ []string) error {
			// no application config is required for this command
			buildInfo := application.ReadBuildInfo()
			out := app.Out()

			switch format {
			case "text":
				fmt.Fprintln(out, "Application:       ", application.Name)
				fmt.Fprintln(out, "Version:           ", buildInfo.Version)
				fmt.Fprintln(out, "BuildDate:         ", buildInfo.BuildDate)
				fmt.Fprintln(out, "GitCommit:         ", buildInfo.GitCommit)
				fmt.Fprintln(out, "GitDescription:    ", buildInfo.GitDescription)
				fmt.Fprintln(out, "Platform:          ", buildInfo.Platform)
				fmt.Fprintln(out, "GoVersion:         ", buildInfo.GoVersion)
				fmt.Fprintln(out, "Compiler:          ", buildInfo.Compiler)

			case "json":
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", " ")
				err := enc.Encode(&struct {
					application.BuildInfo
					Application string `json:"application"`
				}{
					BuildInfo:   buildInfo,
					Application: application.Name,
				})
				if err != nil {
					return fmt.Errorf("failed to show version information: %w", err)
				}
			default:
				return fmt.Errorf("unsupported output format: %s", format)
			}

			return nil
		},
	}

	commonConfiguration(cmd)

	cmd.Flags().StringVarP(&format, "output", "o", "text", "the format to show the results (allowable: [text json])")

	return cmd
}
