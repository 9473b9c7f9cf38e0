// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/builder"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/issue"
)

var (
	buildDryRun bool

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Run the full image build pipeline",
		Long: `Compiles the configured artifacts into a command plan, launches the
transient build instance, executes the plan via SSM Run Command, creates
the AMI, and publishes its ID to Parameter Store. The instance is
terminated on every exit path, including execution failure or timeout.`,
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "compile and print the plan, then stop")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if buildDryRun {
		deps, err := newFetchOnlyDeps(cmd.Context())
		if err != nil {
			return err
		}
		compiled, err := builder.New(cfg, deps).CompilePlan(cmd.Context())
		if err != nil {
			return err
		}
		renderPlanText(cmd.OutOrStdout(), compiled)
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("dry run: no instance launched"))
		return nil
	}

	deps, err := newDeps(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	result, err := builder.New(cfg, deps).Run(cmd.Context())
	if err != nil {
		return &ExitError{Code: 1, Err: issue.Wrapf(err, "build image")}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, SuccessStyle.Render("Build complete"))
	fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Run:"), result.RunID)
	fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Base image:"), result.BaseImage)
	fmt.Fprintf(out, "  %s %s (%s)\n", SubtitleStyle.Render("AMI:"), result.ImageID, result.ImageName)
	fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Parameter:"), cfg.ParameterName)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "  %s %d artifact(s) skipped\n", WarningStyle.Render("Note:"), len(result.Skipped))
	}
	return nil
}
