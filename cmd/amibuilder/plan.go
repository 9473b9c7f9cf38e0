// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/builder"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/plan"
)

var (
	planOutput  string
	planExplain bool
	planCheck   bool

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Compile the build plan without provisioning anything",
		Long: `Fetches the configured artifacts from S3, classifies them, and prints
the compiled command plan. No instance is launched and nothing executes;
the only AWS calls are the S3 object reads.`,
		RunE: runPlan,
	}
)

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "text", "output format: text or yaml")
	planCmd.Flags().BoolVar(&planExplain, "explain", false, "render a markdown summary of the plan")
	planCmd.Flags().BoolVar(&planCheck, "check", false, "fail when a script step has shell syntax errors")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := newFetchOnlyDeps(cmd.Context())
	if err != nil {
		return err
	}

	compiled, err := builder.New(cfg, deps).CompilePlan(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case planExplain:
		if err := renderPlanMarkdown(out, compiled); err != nil {
			return err
		}
	case planOutput == "yaml":
		if err := renderPlanYAML(out, compiled); err != nil {
			return err
		}
	case planOutput == "text":
		renderPlanText(out, compiled)
	default:
		return fmt.Errorf("unknown output format %q (want text or yaml)", planOutput)
	}

	if planCheck {
		issues := plan.CheckScripts(compiled.Plan)
		for _, issue := range issues {
			fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("syntax: ")+issue.String())
		}
		if len(issues) > 0 {
			return &ExitError{Code: 1, Err: fmt.Errorf("%d script(s) with shell syntax errors", len(issues))}
		}
	}
	return nil
}
