// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrUnavailable is the sentinel wrapped by every fetch failure. Callers use
// errors.Is against it to apply the skip-and-continue policy without caring
// which storage backend failed.
var ErrUnavailable = errors.New("artifact source unavailable")

type (
	// Ref identifies one provisioning artifact in object storage. Refs are
	// immutable; they are created once from configuration and consumed by
	// a single fetch.
	Ref struct {
		Bucket string
		Key    string
	}

	// Fetcher retrieves the raw bytes of one artifact. Failures wrap
	// ErrUnavailable.
	Fetcher interface {
		Fetch(ctx context.Context, ref Ref) ([]byte, error)
	}

	// FetcherFunc adapts a function to the Fetcher interface.
	FetcherFunc func(ctx context.Context, ref Ref) ([]byte, error)
)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, ref Ref) ([]byte, error) {
	return f(ctx, ref)
}

// String renders the ref in its configured "bucket:key" form.
func (r Ref) String() string {
	return r.Bucket + ":" + r.Key
}

// FilenameHint returns the base name of the object key, used by artifact
// classification.
func (r Ref) FilenameHint() string {
	return path.Base(r.Key)
}

// ParseRef parses one "bucket:key" descriptor. The key may itself contain
// colons; only the first separates the bucket.
func ParseRef(descriptor string) (Ref, error) {
	bucket, key, ok := strings.Cut(descriptor, ":")
	if !ok || bucket == "" || key == "" {
		return Ref{}, fmt.Errorf("invalid source descriptor %q: want \"bucket:key\"", descriptor)
	}
	return Ref{Bucket: bucket, Key: key}, nil
}

// ParseRefs parses the configured descriptor list, preserving order.
// Malformed descriptors are logged and skipped so one typo does not take
// down the whole source list.
func ParseRefs(descriptors []string) []Ref {
	refs := make([]Ref, 0, len(descriptors))
	for _, d := range descriptors {
		ref, err := ParseRef(d)
		if err != nil {
			log.Warn("skipping invalid source descriptor", "descriptor", d)
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}
