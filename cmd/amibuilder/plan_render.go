// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/plan"
)

// renderPlanText prints the compiled plan step by step, truncating long
// script bodies the way the build log does.
func renderPlanText(w io.Writer, result *plan.Result) {
	fmt.Fprintln(w, TitleStyle.Render("Build Plan"))
	fmt.Fprintln(w)

	for i, step := range result.Plan.Steps {
		label := fmt.Sprintf("%2d. [%s]", i+1, step.Kind)
		command := step.Command
		if idx := strings.IndexByte(command, '\n'); idx >= 0 {
			command = command[:idx] + fmt.Sprintf("  (+%d more lines)", strings.Count(step.Command, "\n"))
		}
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render(label), StepStyle.Render(command))
		if step.Source != "" {
			fmt.Fprintf(w, "      %s\n", SubtitleStyle.Render("from "+step.Source))
		}
	}

	if len(result.Plan.Packages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("Packages:"), strings.Join(result.Plan.Packages, " "))
	}

	for _, skipped := range result.Skipped {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s %s: %v\n", WarningStyle.Render("skipped"), skipped.Ref, skipped.Reason)
	}
	fmt.Fprintln(w)
}

// renderPlanYAML writes the plan as YAML for machine consumption.
func renderPlanYAML(w io.Writer, result *plan.Result) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(result.Plan); err != nil {
		return fmt.Errorf("encode plan as yaml: %w", err)
	}
	return nil
}

// renderPlanMarkdown renders a human-readable plan summary through glamour.
func renderPlanMarkdown(w io.Writer, result *plan.Result) error {
	var md strings.Builder
	md.WriteString("# Build Plan\n\n")

	if len(result.Plan.Packages) > 0 {
		md.WriteString(fmt.Sprintf("Installs **%d** packages: %s\n\n", len(result.Plan.Packages), strings.Join(result.Plan.Packages, ", ")))
	}

	md.WriteString("## Steps\n\n")
	for i, step := range result.Plan.Steps {
		switch step.Kind {
		case plan.StepScript:
			md.WriteString(fmt.Sprintf("%d. Run script `%s`:\n\n```sh\n%s\n```\n", i+1, step.Source, strings.TrimRight(step.Command, "\n")))
		default:
			md.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, step.Command))
		}
	}

	if len(result.Skipped) > 0 {
		md.WriteString("\n## Skipped artifacts\n\n")
		for _, skipped := range result.Skipped {
			md.WriteString(fmt.Sprintf("- `%s`: %v\n", skipped.Ref, skipped.Reason))
		}
	}

	rendered, err := glamour.Render(md.String(), "auto")
	if err != nil {
		return fmt.Errorf("render plan markdown: %w", err)
	}
	fmt.Fprint(w, rendered)
	return nil
}
