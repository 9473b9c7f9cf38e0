// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for the AMI builder.
//
// This package implements the Cobra command hierarchy: the root command,
// `build` for running the full image build pipeline, `plan` for compiling
// and inspecting the command plan without provisioning anything, and
// `config` for showing the effective configuration.
package cmd
