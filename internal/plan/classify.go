// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"regexp"
	"strings"
)

const (
	// scriptExtension marks artifacts that are scripts by name alone.
	scriptExtension = ".sh"

	// shebangWindow bounds how much of the content the shebang check
	// inspects.
	shebangWindow = 100
)

var (
	// shebangPattern matches an interpreter line at the start of content:
	// "#!" followed by an absolute interpreter path.
	shebangPattern = regexp.MustCompile(`^#!\s*/\S+`)

	// packageNamePattern is the allowed character set for one package
	// token. Anything outside it (shell metacharacters in particular)
	// disqualifies the token.
	packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9\-_.+:@]+$`)
)

// Classify decides whether an artifact is a package manifest or a script.
// The rules are an ordered chain; the first match wins:
//
//  1. A filename hint ending in ".sh" is a script.
//  2. A shebang within the first 100 characters is a script, regardless of
//     what the rest of the content looks like.
//  3. Content whose non-comment lines consist solely of package-name tokens,
//     with at least one token present, is a package manifest.
//  4. Everything else is a script. Unrecognized content fails open toward
//     execution rather than being dropped.
//
// Content that is empty after comment-stripping classifies as a manifest
// with zero packages. Classify is a pure function of its inputs.
func Classify(content, filenameHint string) ArtifactKind {
	if strings.HasSuffix(filenameHint, scriptExtension) {
		return KindScript
	}

	head := content
	if len(head) > shebangWindow {
		head = head[:shebangWindow]
	}
	if shebangPattern.MatchString(head) {
		return KindScript
	}

	if looksLikeManifest(content) {
		return KindPackageManifest
	}

	return KindScript
}

// looksLikeManifest reports whether every non-blank, non-comment token in
// content is a valid package name. Content with no tokens at all still
// counts as a manifest (it simply contributes nothing).
func looksLikeManifest(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, token := range strings.Fields(line) {
			if !packageNamePattern.MatchString(token) {
				return false
			}
		}
	}
	return true
}
