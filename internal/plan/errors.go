// SPDX-License-Identifier: MPL-2.0

package plan

import "errors"

var (
	// ErrMalformedManifest is returned by ExtractPackages when a manifest
	// line carries a token outside the package-name character set. The
	// whole artifact's contribution is dropped; a half-applied manifest
	// would install an ambiguous subset.
	ErrMalformedManifest = errors.New("malformed package manifest")

	// ErrEmptyPlan is returned by Compile when no artifact produced an
	// install step or a script step. A build with no provisioning work is
	// treated as a configuration error, not silently accepted.
	ErrEmptyPlan = errors.New("compiled plan contains no install or script steps")
)
