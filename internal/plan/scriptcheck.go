// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ScriptIssue is one shell syntax problem found in a script step.
type ScriptIssue struct {
	Source string
	Err    error
}

func (i ScriptIssue) String() string {
	return fmt.Sprintf("%s: %v", i.Source, i.Err)
}

// CheckScripts parses every script step with a POSIX/bash-aware shell parser
// and reports syntax errors. The check is advisory: scripts execute verbatim
// on the target either way, so a finding here never blocks the build — it
// just surfaces a broken script before an instance is paid for.
func CheckScripts(p *BuildPlan) []ScriptIssue {
	parser := syntax.NewParser()

	var issues []ScriptIssue
	for _, step := range p.Scripts() {
		if _, err := parser.Parse(strings.NewReader(step.Command), step.Source); err != nil {
			issues = append(issues, ScriptIssue{Source: step.Source, Err: err})
		}
	}
	return issues
}
