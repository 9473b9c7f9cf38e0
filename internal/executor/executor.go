// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/charmbracelet/log"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/plan"
)

// runDocument is the SSM document used to execute shell commands.
const runDocument = "AWS-RunShellScript"

var (
	// ErrTimeout means the overall execution deadline expired before the
	// plan finished. Distinct from a step failing on its own.
	ErrTimeout = errors.New("plan execution timed out")

	// ErrCommandFailed means a step reached a terminal non-success state
	// on the target.
	ErrCommandFailed = errors.New("plan step failed")
)

type (
	// SSMAPI is the slice of the SSM client the monitor needs. *ssm.Client
	// satisfies it; tests supply fakes.
	SSMAPI interface {
		SendCommand(ctx context.Context, params *ssm.SendCommandInput, optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error)
		GetCommandInvocation(ctx context.Context, params *ssm.GetCommandInvocationInput, optFns ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error)
	}

	// StepResult reports the outcome of one dispatched plan step.
	StepResult struct {
		Step      plan.CommandStep
		CommandID string
		Status    types.CommandInvocationStatus
		Stderr    string
	}

	// Monitor executes build plans against one remote instance.
	Monitor struct {
		client       SSMAPI
		pollInterval time.Duration
		timeout      time.Duration
		logger       *log.Logger
	}
)

// NewMonitor creates a Monitor with the given polling cadence and overall
// execution deadline.
func NewMonitor(client SSMAPI, pollInterval, timeout time.Duration) *Monitor {
	return &Monitor{
		client:       client,
		pollInterval: pollInterval,
		timeout:      timeout,
		logger:       log.NewWithOptions(os.Stderr, log.Options{Prefix: "executor"}),
	}
}

// Run executes every plan step on the instance, in plan order, stopping at
// the first failure. It returns the per-step results gathered so far along
// with the terminal error, so callers can report partial progress. The
// returned error wraps ErrTimeout when the overall deadline expired and
// ErrCommandFailed when a step itself failed.
func (m *Monitor) Run(ctx context.Context, instanceID string, p *plan.BuildPlan) ([]StepResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	results := make([]StepResult, 0, len(p.Steps))
	for i, step := range p.Steps {
		m.logger.Info("dispatching step", "index", i+1, "total", len(p.Steps), "kind", step.Kind, "command", step.Summary())

		res, err := m.runStep(ctx, instanceID, step)
		results = append(results, res)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return results, fmt.Errorf("step %d/%d (%s): %w", i+1, len(p.Steps), step.Kind, ErrTimeout)
			}
			return results, fmt.Errorf("step %d/%d (%s): %w", i+1, len(p.Steps), step.Kind, err)
		}
	}

	m.logger.Info("all plan steps executed", "steps", len(results))
	return results, nil
}

// runStep dispatches one step and polls its invocation to a terminal state.
func (m *Monitor) runStep(ctx context.Context, instanceID string, step plan.CommandStep) (StepResult, error) {
	result := StepResult{Step: step}

	sent, err := m.client.SendCommand(ctx, &ssm.SendCommandInput{
		InstanceIds:    []string{instanceID},
		DocumentName:   aws.String(runDocument),
		Parameters:     map[string][]string{"commands": {step.Command}},
		TimeoutSeconds: aws.Int32(int32(m.timeout.Seconds())),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, fmt.Errorf("send command: %w", err)
	}
	result.CommandID = aws.ToString(sent.Command.CommandId)

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(m.pollInterval):
		}

		inv, err := m.client.GetCommandInvocation(ctx, &ssm.GetCommandInvocationInput{
			CommandId:  aws.String(result.CommandID),
			InstanceId: aws.String(instanceID),
		})
		if err != nil {
			// The invocation record can lag the SendCommand response.
			var notFound *types.InvocationDoesNotExist
			if errors.As(err, &notFound) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			return result, fmt.Errorf("poll invocation %s: %w", result.CommandID, err)
		}

		result.Status = inv.Status
		switch inv.Status {
		case types.CommandInvocationStatusSuccess:
			m.logger.Debug("step succeeded", "command_id", result.CommandID)
			return result, nil
		case types.CommandInvocationStatusTimedOut:
			result.Stderr = aws.ToString(inv.StandardErrorContent)
			return result, fmt.Errorf("remote status %s: %w", inv.Status, ErrTimeout)
		case types.CommandInvocationStatusFailed, types.CommandInvocationStatusCancelled:
			result.Stderr = aws.ToString(inv.StandardErrorContent)
			return result, fmt.Errorf("remote status %s: %s: %w", inv.Status, firstLine(result.Stderr), ErrCommandFailed)
		default:
			// Pending, InProgress, Delayed: keep polling.
		}
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	if s == "" {
		return "no error details"
	}
	return s
}
