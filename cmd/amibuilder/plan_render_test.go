// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/plan"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/source"
)

func sampleResult() *plan.Result {
	return &plan.Result{
		Plan: &plan.BuildPlan{
			Steps: []plan.CommandStep{
				{Kind: plan.StepUpdate, Command: plan.UpdateCommand},
				{Kind: plan.StepInstall, Command: "sudo yum install -y httpd php8.2"},
				{Kind: plan.StepScript, Command: "#!/bin/bash\necho hi\n", Source: "bkt:setup.sh"},
				{Kind: plan.StepCleanup, Command: plan.CleanCommand},
				{Kind: plan.StepCleanup, Command: plan.RemoveCacheCommand},
			},
			Packages: []string{"httpd", "php8.2"},
		},
		Skipped: []plan.SkippedArtifact{
			{Ref: source.Ref{Bucket: "bkt", Key: "gone.txt"}, Reason: errors.New("not found")},
		},
	}
}

func TestRenderPlanText(t *testing.T) {
	var buf strings.Builder
	renderPlanText(&buf, sampleResult())
	out := buf.String()

	for _, want := range []string{
		"sudo yum update -y",
		"sudo yum install -y httpd php8.2",
		"from bkt:setup.sh",
		"Packages:",
		"bkt:gone.txt",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	// Multi-line script bodies are collapsed, not dumped.
	if strings.Contains(out, "echo hi") {
		t.Errorf("text output should not include full script bodies:\n%s", out)
	}
}

func TestRenderPlanYAMLRoundTrips(t *testing.T) {
	var buf strings.Builder
	if err := renderPlanYAML(&buf, sampleResult()); err != nil {
		t.Fatalf("renderPlanYAML() unexpected error: %v", err)
	}

	var decoded plan.BuildPlan
	if err := yaml.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded.Steps) != 5 {
		t.Errorf("decoded %d steps, want 5", len(decoded.Steps))
	}
	if decoded.Steps[2].Command != "#!/bin/bash\necho hi\n" {
		t.Errorf("script body altered by YAML round trip: %q", decoded.Steps[2].Command)
	}
}

func TestRenderPlanMarkdown(t *testing.T) {
	var buf strings.Builder
	if err := renderPlanMarkdown(&buf, sampleResult()); err != nil {
		t.Fatalf("renderPlanMarkdown() unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"httpd", "php8.2", "echo hi"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}
