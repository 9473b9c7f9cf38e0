// SPDX-License-Identifier: MPL-2.0

// Package instance manages the transient EC2 build instance.
//
// One Service covers the whole instance lifecycle: resolving the newest
// Amazon Linux 2 base image, launching the tagged build instance (with
// optional key pair and IAM instance profile), waiting for the running
// state, snapshotting it into an AMI, and terminating it. Terminate is safe
// to call from deferred cleanup paths regardless of how far the run got.
package instance
