// SPDX-License-Identifier: MPL-2.0

// Package builder orchestrates one end-to-end image build.
//
// A run resolves the base image, compiles the build plan from the configured
// artifact sources, launches the transient build instance, executes the plan
// on it, snapshots the instance into an AMI, and publishes the AMI ID.
// Collaborators are injected through small interfaces so the whole pipeline
// is testable without AWS. The instance is terminated on every exit path;
// a failed or timed-out execution never leaves the instance running.
package builder
