// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/charmbracelet/log"
)

const (
	// nameTag marks build instances so they are identifiable in the
	// console and in cost reports.
	nameTag = "Custom-AMI-Builder"

	// baseImageNamePattern selects Amazon Linux 2 HVM gp2 images.
	baseImageNamePattern = "amzn2-ami-kernel-*-hvm-*-gp2"
)

// ErrNoBaseImage is returned when no Amazon Linux 2 image matches the
// base-image filters.
var ErrNoBaseImage = errors.New("no matching base image found")

type (
	// API is the slice of the EC2 client the service needs. *ec2.Client
	// satisfies it; tests supply fakes. DescribeInstances and
	// DescribeImages are included so the SDK waiters can poll through
	// the same interface.
	API interface {
		DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
		DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
		RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
		CreateImage(ctx context.Context, params *ec2.CreateImageInput, optFns ...func(*ec2.Options)) (*ec2.CreateImageOutput, error)
		TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	}

	// LaunchSpec describes the build instance to start.
	LaunchSpec struct {
		BaseImage       string
		InstanceType    string
		KeyName         string
		InstanceProfile string
	}

	// Service drives the build instance lifecycle.
	Service struct {
		client API
		logger *log.Logger
	}
)

// NewService creates a Service on the given EC2 client.
func NewService(client API) *Service {
	return &Service{
		client: client,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "instance"}),
	}
}

// ResolveBaseImage returns the newest available Amazon Linux 2 AMI for
// x86_64, by image creation date.
func (s *Service) ResolveBaseImage(ctx context.Context) (string, error) {
	out, err := s.client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{"amazon"},
		Filters: []types.Filter{
			{Name: aws.String("name"), Values: []string{baseImageNamePattern}},
			{Name: aws.String("architecture"), Values: []string{"x86_64"}},
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("describe base images: %w", err)
	}
	if len(out.Images) == 0 {
		return "", ErrNoBaseImage
	}

	images := out.Images
	// CreationDate is RFC 3339, so lexical order is chronological.
	sort.Slice(images, func(i, j int) bool {
		return aws.ToString(images[i].CreationDate) > aws.ToString(images[j].CreationDate)
	})

	imageID := aws.ToString(images[0].ImageId)
	s.logger.Info("resolved base image", "ami", imageID, "created", aws.ToString(images[0].CreationDate))
	return imageID, nil
}

// Launch starts one build instance and returns its ID. The instance carries
// the builder Name tag; key pair and instance profile are attached only when
// configured.
func (s *Service) Launch(ctx context.Context, spec LaunchSpec) (string, error) {
	input := &ec2.RunInstancesInput{
		ImageId:      aws.String(spec.BaseImage),
		InstanceType: types.InstanceType(spec.InstanceType),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeInstance,
			Tags: []types.Tag{{
				Key:   aws.String("Name"),
				Value: aws.String(nameTag),
			}},
		}},
	}

	if spec.InstanceProfile != "" {
		input.IamInstanceProfile = &types.IamInstanceProfileSpecification{
			Name: aws.String(spec.InstanceProfile),
		}
	} else {
		s.logger.Warn("no IAM instance profile configured; instance needs S3/SSM access some other way")
	}
	if spec.KeyName != "" {
		input.KeyName = aws.String(spec.KeyName)
	}

	out, err := s.client.RunInstances(ctx, input)
	if err != nil {
		return "", fmt.Errorf("launch build instance: %w", err)
	}
	if len(out.Instances) == 0 {
		return "", errors.New("launch build instance: no instance in response")
	}

	instanceID := aws.ToString(out.Instances[0].InstanceId)
	s.logger.Info("launched build instance", "instance", instanceID, "type", spec.InstanceType)
	return instanceID, nil
}

// AwaitRunning blocks until the instance reaches the running state.
func (s *Service) AwaitRunning(ctx context.Context, instanceID string, maxWait time.Duration) error {
	waiter := ec2.NewInstanceRunningWaiter(s.client)
	err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	}, maxWait)
	if err != nil {
		return fmt.Errorf("wait for instance %s running: %w", instanceID, err)
	}
	s.logger.Info("build instance running", "instance", instanceID)
	return nil
}

// CreateImage snapshots the instance into a new AMI without rebooting it and
// returns the image ID.
func (s *Service) CreateImage(ctx context.Context, instanceID, name, description string) (string, error) {
	out, err := s.client.CreateImage(ctx, &ec2.CreateImageInput{
		InstanceId:  aws.String(instanceID),
		Name:        aws.String(name),
		Description: aws.String(description),
		NoReboot:    aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("create image from %s: %w", instanceID, err)
	}
	imageID := aws.ToString(out.ImageId)
	s.logger.Info("creating image", "ami", imageID, "name", name)
	return imageID, nil
}

// AwaitImage blocks until the AMI is available.
func (s *Service) AwaitImage(ctx context.Context, imageID string, maxWait time.Duration) error {
	waiter := ec2.NewImageAvailableWaiter(s.client)
	err := waiter.Wait(ctx, &ec2.DescribeImagesInput{
		ImageIds: []string{imageID},
	}, maxWait)
	if err != nil {
		return fmt.Errorf("wait for image %s: %w", imageID, err)
	}
	s.logger.Info("image available", "ami", imageID)
	return nil
}

// Terminate shuts the build instance down. It is called from deferred
// cleanup paths, so it logs rather than panics and returns the error for
// callers that want it.
func (s *Service) Terminate(ctx context.Context, instanceID string) error {
	_, err := s.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		s.logger.Error("failed to terminate build instance", "instance", instanceID, "error", err)
		return fmt.Errorf("terminate instance %s: %w", instanceID, err)
	}
	s.logger.Info("terminated build instance", "instance", instanceID)
	return nil
}
