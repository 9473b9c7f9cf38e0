// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		hint     string
		expected ArtifactKind
	}{
		{
			name:     "sh extension wins regardless of content",
			content:  "httpd\nphp8.2\n",
			hint:     "setup.sh",
			expected: KindScript,
		},
		{
			name:     "shebang bash",
			content:  "#!/bin/bash\necho hi\n",
			hint:     "bootstrap",
			expected: KindScript,
		},
		{
			name:     "shebang env interpreter",
			content:  "#!/usr/bin/env python3\nprint('x')\n",
			hint:     "job.txt",
			expected: KindScript,
		},
		{
			name:     "plain package list",
			content:  "httpd\nphp8.2\nmariadb-server\n",
			hint:     "packages.txt",
			expected: KindPackageManifest,
		},
		{
			name:     "package list with comments and blanks",
			content:  "# web stack\n\nhttpd\n  php8.2  \n# db\nmariadb-server\n",
			hint:     "packages.txt",
			expected: KindPackageManifest,
		},
		{
			name:     "multiple packages per line",
			content:  "httpd php8.2\nmariadb-server\n",
			hint:     "packages.txt",
			expected: KindPackageManifest,
		},
		{
			name:     "shell metacharacters fall through to script",
			content:  "pkg1; rm -rf /\n",
			hint:     "packages.txt",
			expected: KindScript,
		},
		{
			name:     "free text with punctuation defaults to script",
			content:  "please install the usual things, thanks!\n",
			hint:     "notes.txt",
			expected: KindScript,
		},
		{
			// Bare words are indistinguishable from package names, so
			// word-only prose lands on the manifest side of the rule.
			name:     "word-only prose is manifest shaped",
			content:  "install the usual things please\n",
			hint:     "notes.txt",
			expected: KindPackageManifest,
		},
		{
			name:     "empty content is an empty manifest",
			content:  "",
			hint:     "packages.txt",
			expected: KindPackageManifest,
		},
		{
			name:     "comments only is an empty manifest",
			content:  "# nothing here\n# really\n",
			hint:     "packages.txt",
			expected: KindPackageManifest,
		},
		{
			name:     "versioned and scoped names are manifest tokens",
			content:  "php8.2\nlibfoo-devel\nnodejs:18\ngcc-c++\ntzdata@2024a\n",
			hint:     "packages.txt",
			expected: KindPackageManifest,
		},
		{
			name:     "path-like token falls through to script",
			content:  "httpd\n@scope/pkg\n",
			hint:     "packages.txt",
			expected: KindScript,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.content, tt.hint)
			if got != tt.expected {
				t.Errorf("Classify() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestClassifyShebangPrecedesManifestShape(t *testing.T) {
	// A shebang-led file whose remaining lines all look like package
	// names is still a script; the shebang check fires first.
	content := "#!/bin/sh\nhttpd\nphp8.2\n"
	if got := Classify(content, "mixed.txt"); got != KindScript {
		t.Errorf("Classify() = %s, want %s", got, KindScript)
	}
}

func TestClassifyShebangMustLeadContent(t *testing.T) {
	// A shebang that is not the first line does not fire rule 2; the
	// leading comment lines keep the content manifest-shaped, and the
	// buried shebang line strips away as a comment.
	padding := "# " + strings.Repeat("x", 120) + "\n"
	content := padding + "#!/bin/bash\nhttpd\n"
	if got := Classify(content, "late-shebang.txt"); got != KindPackageManifest {
		t.Errorf("Classify() = %s, want %s", got, KindPackageManifest)
	}
}

func TestClassifyIsPure(t *testing.T) {
	content := "httpd\nphp8.2\n"
	first := Classify(content, "packages.txt")
	for range 5 {
		if got := Classify(content, "packages.txt"); got != first {
			t.Fatalf("Classify() not stable: got %s then %s", first, got)
		}
	}
}
