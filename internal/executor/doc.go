// SPDX-License-Identifier: MPL-2.0

// Package executor drives remote execution of a compiled build plan.
//
// The Monitor dispatches each plan step to the build instance as an SSM
// Run Command invocation (AWS-RunShellScript), strictly in plan order, and
// polls the invocation until it reaches a terminal state. The whole plan
// runs under one overall deadline; hitting it is reported as ErrTimeout,
// distinct from a step that ran and failed (ErrCommandFailed). Either way
// the caller still owns instance teardown.
package executor
