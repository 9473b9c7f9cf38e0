// SPDX-License-Identifier: MPL-2.0

// Package registry publishes build results to SSM Parameter Store.
//
// Downstream consumers (launch templates, CloudFormation, other pipelines)
// read the current AMI ID from a well-known parameter path; Publish
// overwrites that parameter after every successful build.
package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/charmbracelet/log"
)

type (
	// API is the slice of the SSM client the registry needs.
	API interface {
		PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	}

	// Registry writes AMI IDs to Parameter Store.
	Registry struct {
		client API
		logger *log.Logger
	}
)

// New creates a Registry on the given SSM client.
func New(client API) *Registry {
	return &Registry{
		client: client,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "registry"}),
	}
}

// Publish stores the AMI ID at the given parameter path, overwriting any
// previous value.
func (r *Registry) Publish(ctx context.Context, parameterName, amiID string) error {
	_, err := r.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(parameterName),
		Value:     aws.String(amiID),
		Type:      types.ParameterTypeString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", amiID, parameterName, err)
	}
	r.logger.Info("published image id", "parameter", parameterName, "ami", amiID)
	return nil
}
