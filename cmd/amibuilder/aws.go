// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/builder"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/config"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/executor"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/instance"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/registry"
	"github.com/techwhisper-in/aws-ec2-ami-builder/internal/source"
)

// newDeps wires the production AWS collaborators for one run. Region and
// credentials come from the default SDK chain (env, shared config, IMDS).
func newDeps(ctx context.Context, cfg *config.Config) (builder.Deps, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return builder.Deps{}, fmt.Errorf("load AWS configuration: %w", err)
	}

	ssmClient := ssm.NewFromConfig(awsCfg)
	return builder.Deps{
		Fetcher:   source.NewS3Fetcher(s3.NewFromConfig(awsCfg)),
		Instances: instance.NewService(ec2.NewFromConfig(awsCfg)),
		Executor:  executor.NewMonitor(ssmClient, cfg.PollInterval, cfg.ExecutionTimeout),
		Registry:  registry.New(ssmClient),
	}, nil
}

// newFetchOnlyDeps wires just the S3 fetcher, for commands that compile a
// plan without touching EC2 or SSM.
func newFetchOnlyDeps(ctx context.Context) (builder.Deps, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return builder.Deps{}, fmt.Errorf("load AWS configuration: %w", err)
	}
	return builder.Deps{Fetcher: source.NewS3Fetcher(s3.NewFromConfig(awsCfg))}, nil
}
