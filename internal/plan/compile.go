// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/source"
)

type (
	// SkippedArtifact records one artifact that could not contribute to
	// the plan, and why. The run continues without it.
	SkippedArtifact struct {
		Ref    source.Ref
		Reason error
	}

	// Result is the outcome of one compilation: the plan plus the partial
	// failures accumulated along the way. Callers decide whether skipped
	// artifacts are acceptable; Compile only fails when nothing at all
	// was compiled.
	Result struct {
		Plan    *BuildPlan
		Skipped []SkippedArtifact
	}
)

// Compile fetches, classifies, and assembles the configured artifacts into
// one BuildPlan. Artifacts are processed strictly in input order; callers
// that parallelize fetching hide it behind the Fetcher (see source.Prefetch)
// so assembly stays deterministic.
//
// Per-artifact failures (source.ErrUnavailable, ErrMalformedManifest) are
// recorded in Result.Skipped and do not abort the run. Compile returns
// ErrEmptyPlan when no artifact produced an install or script step.
func Compile(ctx context.Context, refs []source.Ref, fetcher source.Fetcher) (*Result, error) {
	packages := newPackageSet()
	var scripts []CommandStep
	var skipped []SkippedArtifact

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("compile plan: %w", err)
		}

		body, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			log.Warn("skipping unreachable artifact", "ref", ref.String(), "error", err)
			skipped = append(skipped, SkippedArtifact{Ref: ref, Reason: err})
			continue
		}

		content := string(body)
		kind := Classify(content, ref.FilenameHint())
		log.Debug("classified artifact", "ref", ref.String(), "kind", kind.String())

		switch kind {
		case KindPackageManifest:
			names, err := ExtractPackages(content)
			if err != nil {
				// Unreachable through Classify, which only admits
				// valid tokens, but extraction stays defensive for
				// direct callers.
				log.Warn("skipping malformed manifest", "ref", ref.String(), "error", err)
				skipped = append(skipped, SkippedArtifact{Ref: ref, Reason: err})
				continue
			}
			packages.add(names...)
		case KindScript:
			scripts = append(scripts, CommandStep{
				Kind:    StepScript,
				Command: content,
				Source:  ref.String(),
			})
		}
	}

	merged := packages.list()
	if len(merged) == 0 && len(scripts) == 0 {
		return nil, fmt.Errorf("%d sources: %w", len(refs), ErrEmptyPlan)
	}

	steps := make([]CommandStep, 0, len(scripts)+4)
	steps = append(steps, CommandStep{Kind: StepUpdate, Command: UpdateCommand})
	if len(merged) > 0 {
		steps = append(steps, CommandStep{Kind: StepInstall, Command: InstallCommand(merged)})
	}
	steps = append(steps, scripts...)
	steps = append(steps,
		CommandStep{Kind: StepCleanup, Command: CleanCommand},
		CommandStep{Kind: StepCleanup, Command: RemoveCacheCommand},
	)

	return &Result{
		Plan:    &BuildPlan{Steps: steps, Packages: merged},
		Skipped: skipped,
	}, nil
}

// IsEmptyPlan reports whether err means compilation produced no work.
func IsEmptyPlan(err error) bool {
	return errors.Is(err, ErrEmptyPlan)
}
