// SPDX-License-Identifier: MPL-2.0

// Package plan compiles provisioning artifacts into an ordered command plan.
//
// Artifacts come in two shapes: package manifests (plain-text lists of package
// names) and shell scripts. The compiler classifies each artifact by heuristic,
// merges every manifest into one deduplicated install step, carries scripts
// through untouched, and assembles the final plan in a fixed phase order:
//
//	system update -> package install -> scripts -> cache cleanup
//
// The main entry point is Compile:
//
//	result, err := plan.Compile(ctx, refs, fetcher)
//	// result.Plan holds the ordered steps, result.Skipped the artifacts
//	// that could not contribute.
//
// Per-artifact failures (unreachable sources, malformed manifests) are
// recorded and skipped rather than aborting the run; only a plan with no
// install step and no script steps is an error.
package plan
