// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect builder configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE:  runConfigShow,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Configuration"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("Sources:"))
	for i, s := range cfg.Sources {
		fmt.Fprintf(out, "    %2d. %s\n", i+1, s)
	}
	fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Parameter:"), cfg.ParameterName)
	fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Instance type:"), cfg.InstanceType)
	if cfg.KeyName != "" {
		fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Key pair:"), cfg.KeyName)
	}
	if cfg.InstanceProfile != "" {
		fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Instance profile:"), cfg.InstanceProfile)
	}
	fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Execution timeout:"), cfg.ExecutionTimeout)
	fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("Poll interval:"), cfg.PollInterval)
	return nil
}
