// SPDX-License-Identifier: MPL-2.0

// Package source resolves and fetches provisioning artifacts from object
// storage.
//
// Artifacts are configured as "bucket:key" descriptors; ParseRefs turns the
// configured list into ordered Refs, dropping malformed descriptors with a
// warning. Fetching goes through the Fetcher interface so the compiler and
// tests never touch S3 directly; S3Fetcher is the production implementation
// and Prefetch wraps any Fetcher with bounded-concurrency prefetching that
// keeps results addressable in original artifact order.
package source
