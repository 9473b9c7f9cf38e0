// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/config"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "amibuilder",
		Short: "Build custom Amazon Machine Images from S3 artifacts",
		Long: TitleStyle.Render("amibuilder") + SubtitleStyle.Render(" - custom AMI builder") + `

amibuilder provisions a transient EC2 instance, compiles the configured
S3 artifacts (package manifests and shell scripts) into one ordered
command plan, executes the plan on the instance via SSM Run Command,
snapshots the instance into an AMI, and publishes the AMI ID to
Parameter Store. The instance is terminated no matter how the run ends.

Sources are "bucket:key" descriptors, ordered; script steps execute in
source order. Set them via PACKAGE_SOURCES (JSON array) or a config file.

` + SubtitleStyle.Render("Examples:") + `
  amibuilder plan              Compile and print the plan, no instance
  amibuilder plan -o yaml      Same, as YAML
  amibuilder build             Run the full image build
  amibuilder build --dry-run   Compile only, show what would run
  amibuilder config show       Show the effective configuration`,
	}
)

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); environment variables still win")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(configCmd)
}

// initLogging applies the verbosity flag to the default logger before any
// command runs.
func initLogging() {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// loadConfig loads the effective configuration, rendering failures with
// actionable suggestions before handing the error back to the runner.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err == nil {
		return cfg, nil
	}

	ae := issue.New("load configuration")
	if cfgFile != "" {
		ae = ae.WithResource(cfgFile)
	}
	ae = ae.
		WithSuggestion("Set PACKAGE_SOURCES to a JSON array of \"bucket:key\" descriptors").
		WithSuggestion("Set PARAM_STORE_NAME to the Parameter Store path for the AMI ID").
		WithSuggestion("Or pass --config with a YAML config file").
		Wrap(err)
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+issue.FormatError(ae, verbose))
	return nil, &ExitError{Code: 2}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
