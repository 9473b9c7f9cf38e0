// SPDX-License-Identifier: MPL-2.0

package plan

import "strings"

// Fixed commands for the non-variable plan phases. The SSM run document
// executes each line with sh, so sudo is spelled out explicitly.
const (
	UpdateCommand        = "sudo yum update -y"
	installCommandPrefix = "sudo yum install -y "
	CleanCommand         = "sudo yum clean all"
	RemoveCacheCommand   = "sudo rm -rf /var/cache/yum"
)

type (
	// ArtifactKind is the classification of one provisioning artifact.
	ArtifactKind int

	// StepKind identifies the plan phase a CommandStep belongs to.
	StepKind string

	// CommandStep is one unit of remote execution: either a fixed shell
	// command or the full body of a script artifact, run as a unit.
	CommandStep struct {
		Kind StepKind `yaml:"kind"`

		// Command is the exact text handed to the remote shell. Script
		// steps carry the artifact body byte for byte; nothing is
		// re-escaped or trimmed.
		Command string `yaml:"command"`

		// Source names the artifact a script step came from, empty for
		// the fixed phases.
		Source string `yaml:"source,omitempty"`
	}

	// BuildPlan is the complete ordered command sequence for one run.
	// It is immutable once returned by Compile; step order is load-bearing
	// (update precedes install, install precedes scripts, cleanup is last).
	BuildPlan struct {
		Steps []CommandStep `yaml:"steps"`

		// Packages is the deduplicated package list embedded in the
		// install step, in first-seen order. Empty when no manifest
		// contributed.
		Packages []string `yaml:"packages,omitempty"`
	}
)

// summaryLimit caps how much of a command log lines and run output show.
const summaryLimit = 80

// Summary returns a single-line display form of the command: the first
// line only, capped at 80 characters with an ellipsis.
func (s CommandStep) Summary() string {
	out := s.Command
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	if len(out) > summaryLimit {
		out = out[:summaryLimit] + "..."
	}
	return out
}

const (
	// KindPackageManifest marks plain-text package lists.
	KindPackageManifest ArtifactKind = iota
	// KindScript marks artifacts executed verbatim as shell scripts.
	KindScript
)

const (
	StepUpdate  StepKind = "update"
	StepInstall StepKind = "install"
	StepScript  StepKind = "script"
	StepCleanup StepKind = "cleanup"
)

// String returns the kind name for logs and test failures.
func (k ArtifactKind) String() string {
	switch k {
	case KindPackageManifest:
		return "package-manifest"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// InstallCommand renders the single combined install step for the given
// package list.
func InstallCommand(packages []string) string {
	return installCommandPrefix + strings.Join(packages, " ")
}

// Scripts returns only the script steps, preserving plan order.
func (p *BuildPlan) Scripts() []CommandStep {
	var scripts []CommandStep
	for _, s := range p.Steps {
		if s.Kind == StepScript {
			scripts = append(scripts, s)
		}
	}
	return scripts
}
