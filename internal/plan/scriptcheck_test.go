// SPDX-License-Identifier: MPL-2.0

package plan

import "testing"

func TestCheckScripts(t *testing.T) {
	p := &BuildPlan{Steps: []CommandStep{
		{Kind: StepUpdate, Command: UpdateCommand},
		{Kind: StepScript, Command: "#!/bin/bash\necho ok\n", Source: "b:good.sh"},
		{Kind: StepScript, Command: "if true; then\necho unclosed\n", Source: "b:broken.sh"},
		{Kind: StepCleanup, Command: CleanCommand},
	}}

	issues := CheckScripts(p)
	if len(issues) != 1 {
		t.Fatalf("CheckScripts() found %d issues, want 1: %v", len(issues), issues)
	}
	if issues[0].Source != "b:broken.sh" {
		t.Errorf("issue source = %s, want b:broken.sh", issues[0].Source)
	}
}

func TestCheckScriptsCleanPlan(t *testing.T) {
	p := &BuildPlan{Steps: []CommandStep{
		{Kind: StepScript, Command: "for i in 1 2 3; do echo \"$i\"; done\n", Source: "b:loop.sh"},
	}}
	if issues := CheckScripts(p); len(issues) != 0 {
		t.Errorf("CheckScripts() = %v, want none", issues)
	}
}
