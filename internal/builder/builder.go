// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/config"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/executor"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/instance"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/plan"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/source"
)

const (
	// launchWait bounds the wait for the instance to reach running.
	launchWait = 5 * time.Minute

	// imageWait bounds the wait for the created AMI to become available.
	imageWait = 20 * time.Minute
)

type (
	// InstanceService is the instance lifecycle surface the builder
	// needs; *instance.Service satisfies it.
	InstanceService interface {
		ResolveBaseImage(ctx context.Context) (string, error)
		Launch(ctx context.Context, spec instance.LaunchSpec) (string, error)
		AwaitRunning(ctx context.Context, instanceID string, maxWait time.Duration) error
		CreateImage(ctx context.Context, instanceID, name, description string) (string, error)
		AwaitImage(ctx context.Context, imageID string, maxWait time.Duration) error
		Terminate(ctx context.Context, instanceID string) error
	}

	// PlanExecutor runs a compiled plan on one instance;
	// *executor.Monitor satisfies it.
	PlanExecutor interface {
		Run(ctx context.Context, instanceID string, p *plan.BuildPlan) ([]executor.StepResult, error)
	}

	// ImageRegistry publishes the resulting AMI ID; *registry.Registry
	// satisfies it.
	ImageRegistry interface {
		Publish(ctx context.Context, parameterName, amiID string) error
	}

	// Deps are the injected collaborators for one Builder.
	Deps struct {
		Fetcher   source.Fetcher
		Instances InstanceService
		Executor  PlanExecutor
		Registry  ImageRegistry
	}

	// Result summarizes one completed run.
	Result struct {
		RunID     string
		BaseImage string
		ImageID   string
		ImageName string
		Plan      *plan.BuildPlan
		Skipped   []plan.SkippedArtifact
		Steps     []executor.StepResult
	}

	// Builder runs the image build pipeline.
	Builder struct {
		cfg    *config.Config
		deps   Deps
		logger *log.Logger

		// now is swappable for deterministic image names in tests.
		now func() time.Time
	}
)

// New creates a Builder for the given configuration and collaborators.
func New(cfg *config.Config, deps Deps) *Builder {
	return &Builder{
		cfg:    cfg,
		deps:   deps,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "builder"}),
		now:    time.Now,
	}
}

// CompilePlan fetches the configured artifacts and compiles the build plan
// without touching EC2 or SSM. It backs the dry-run and plan inspection
// paths and is the first stage of Run.
func (b *Builder) CompilePlan(ctx context.Context) (*plan.Result, error) {
	refs := source.ParseRefs(b.cfg.Sources)
	if len(refs) == 0 {
		return nil, fmt.Errorf("no usable source descriptors in configuration: %w", plan.ErrEmptyPlan)
	}

	fetcher, err := source.Prefetch(ctx, b.deps.Fetcher, refs, b.cfg.FetchConcurrency)
	if err != nil {
		return nil, err
	}

	result, err := plan.Compile(ctx, refs, fetcher)
	if err != nil {
		return nil, err
	}

	for _, issue := range plan.CheckScripts(result.Plan) {
		b.logger.Warn("script has shell syntax problems", "source", issue.Source, "error", issue.Err)
	}
	return result, nil
}

// Run executes the full pipeline and returns the run summary. Whatever
// happens after launch, the build instance is terminated before Run
// returns; teardown uses a context detached from cancellation so a
// canceled or timed-out run still cleans up.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	b.logger.Info("starting build run", "run_id", result.RunID, "sources", len(b.cfg.Sources))

	compiled, err := b.CompilePlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile build plan: %w", err)
	}
	result.Plan = compiled.Plan
	result.Skipped = compiled.Skipped
	b.logCompiledPlan(compiled)

	baseImage, err := b.deps.Instances.ResolveBaseImage(ctx)
	if err != nil {
		return nil, err
	}
	result.BaseImage = baseImage

	instanceID, err := b.deps.Instances.Launch(ctx, instance.LaunchSpec{
		BaseImage:       baseImage,
		InstanceType:    b.cfg.InstanceType,
		KeyName:         b.cfg.KeyName,
		InstanceProfile: b.cfg.InstanceProfile,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		// Best effort; Terminate logs its own failures.
		_ = b.deps.Instances.Terminate(context.WithoutCancel(ctx), instanceID)
	}()

	if err := b.deps.Instances.AwaitRunning(ctx, instanceID, launchWait); err != nil {
		return nil, err
	}

	steps, err := b.deps.Executor.Run(ctx, instanceID, compiled.Plan)
	result.Steps = steps
	if err != nil {
		return result, fmt.Errorf("execute build plan on %s: %w", instanceID, err)
	}

	result.ImageName = fmt.Sprintf("custom-ami-%d", b.now().Unix())
	description := fmt.Sprintf("Custom AMI with packages/scripts from %d sources", len(b.cfg.Sources))
	imageID, err := b.deps.Instances.CreateImage(ctx, instanceID, result.ImageName, description)
	if err != nil {
		return result, err
	}
	result.ImageID = imageID

	if err := b.deps.Instances.AwaitImage(ctx, imageID, imageWait); err != nil {
		return result, err
	}

	if err := b.deps.Registry.Publish(ctx, b.cfg.ParameterName, imageID); err != nil {
		return result, err
	}

	b.logger.Info("build run complete", "run_id", result.RunID, "ami", imageID)
	return result, nil
}

// logCompiledPlan mirrors the plan into the log at build time, truncating
// long script bodies.
func (b *Builder) logCompiledPlan(compiled *plan.Result) {
	for i, step := range compiled.Plan.Steps {
		b.logger.Info("plan step", "index", i+1, "command", step.Summary())
	}
	for _, skipped := range compiled.Skipped {
		b.logger.Warn("artifact skipped", "ref", skipped.Ref.String(), "reason", skipped.Reason)
	}
}
