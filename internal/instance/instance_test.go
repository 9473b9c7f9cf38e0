// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2 struct {
	images          []types.Image
	describeErr     error
	runInput        *ec2.RunInstancesInput
	runErr          error
	instanceState   types.InstanceStateName
	imageState      types.ImageState
	createdName     string
	terminated      []string
	terminateErr    error
	describedImages *ec2.DescribeImagesInput
}

func (f *fakeEC2) DescribeImages(_ context.Context, params *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	f.describedImages = params
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	if len(params.ImageIds) > 0 {
		// Waiter polling a specific image.
		return &ec2.DescribeImagesOutput{Images: []types.Image{{
			ImageId: aws.String(params.ImageIds[0]),
			State:   f.imageState,
		}}}, nil
	}
	return &ec2.DescribeImagesOutput{Images: f.images}, nil
}

func (f *fakeEC2) DescribeInstances(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return &ec2.DescribeInstancesOutput{Reservations: []types.Reservation{{
		Instances: []types.Instance{{
			InstanceId: aws.String(params.InstanceIds[0]),
			State:      &types.InstanceState{Name: f.instanceState},
		}},
	}}}, nil
}

func (f *fakeEC2) RunInstances(_ context.Context, params *ec2.RunInstancesInput, _ ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
	f.runInput = params
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &ec2.RunInstancesOutput{Instances: []types.Instance{{
		InstanceId: aws.String("i-0123456789abcdef0"),
	}}}, nil
}

func (f *fakeEC2) CreateImage(_ context.Context, params *ec2.CreateImageInput, _ ...func(*ec2.Options)) (*ec2.CreateImageOutput, error) {
	f.createdName = aws.ToString(params.Name)
	return &ec2.CreateImageOutput{ImageId: aws.String("ami-0fedcba9876543210")}, nil
}

func (f *fakeEC2) TerminateInstances(_ context.Context, params *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	f.terminated = append(f.terminated, params.InstanceIds...)
	return &ec2.TerminateInstancesOutput{}, f.terminateErr
}

func TestResolveBaseImagePicksNewest(t *testing.T) {
	client := &fakeEC2{images: []types.Image{
		{ImageId: aws.String("ami-old"), CreationDate: aws.String("2023-01-10T00:00:00.000Z")},
		{ImageId: aws.String("ami-new"), CreationDate: aws.String("2024-06-01T00:00:00.000Z")},
		{ImageId: aws.String("ami-mid"), CreationDate: aws.String("2023-12-31T00:00:00.000Z")},
	}}
	svc := NewService(client)

	imageID, err := svc.ResolveBaseImage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ami-new", imageID)

	require.NotNil(t, client.describedImages)
	assert.Equal(t, []string{"amazon"}, client.describedImages.Owners)
	require.Len(t, client.describedImages.Filters, 3)
	assert.Equal(t, "name", aws.ToString(client.describedImages.Filters[0].Name))
}

func TestResolveBaseImageNoMatches(t *testing.T) {
	svc := NewService(&fakeEC2{})
	_, err := svc.ResolveBaseImage(context.Background())
	assert.ErrorIs(t, err, ErrNoBaseImage)
}

func TestLaunchSpecMapping(t *testing.T) {
	client := &fakeEC2{}
	svc := NewService(client)

	id, err := svc.Launch(context.Background(), LaunchSpec{
		BaseImage:       "ami-base",
		InstanceType:    "t3.small",
		KeyName:         "builder-key",
		InstanceProfile: "builder-profile",
	})
	require.NoError(t, err)
	assert.Equal(t, "i-0123456789abcdef0", id)

	input := client.runInput
	require.NotNil(t, input)
	assert.Equal(t, "ami-base", aws.ToString(input.ImageId))
	assert.Equal(t, types.InstanceType("t3.small"), input.InstanceType)
	assert.Equal(t, "builder-key", aws.ToString(input.KeyName))
	require.NotNil(t, input.IamInstanceProfile)
	assert.Equal(t, "builder-profile", aws.ToString(input.IamInstanceProfile.Name))
	require.Len(t, input.TagSpecifications, 1)
	assert.Equal(t, "Custom-AMI-Builder", aws.ToString(input.TagSpecifications[0].Tags[0].Value))
}

func TestLaunchOptionalFieldsOmitted(t *testing.T) {
	client := &fakeEC2{}
	svc := NewService(client)

	_, err := svc.Launch(context.Background(), LaunchSpec{
		BaseImage:    "ami-base",
		InstanceType: "t2.micro",
	})
	require.NoError(t, err)
	assert.Nil(t, client.runInput.KeyName)
	assert.Nil(t, client.runInput.IamInstanceProfile)
}

func TestAwaitRunning(t *testing.T) {
	client := &fakeEC2{instanceState: types.InstanceStateNameRunning}
	svc := NewService(client)

	err := svc.AwaitRunning(context.Background(), "i-0123456789abcdef0", 30*time.Second)
	require.NoError(t, err)
}

func TestCreateImageAndAwait(t *testing.T) {
	client := &fakeEC2{imageState: types.ImageStateAvailable}
	svc := NewService(client)

	imageID, err := svc.CreateImage(context.Background(), "i-0123456789abcdef0", "custom-ami-1700000000", "test image")
	require.NoError(t, err)
	assert.Equal(t, "ami-0fedcba9876543210", imageID)
	assert.Equal(t, "custom-ami-1700000000", client.createdName)

	require.NoError(t, svc.AwaitImage(context.Background(), imageID, 30*time.Second))
}

func TestTerminate(t *testing.T) {
	client := &fakeEC2{}
	svc := NewService(client)

	require.NoError(t, svc.Terminate(context.Background(), "i-0123456789abcdef0"))
	assert.Equal(t, []string{"i-0123456789abcdef0"}, client.terminated)
}

func TestTerminateError(t *testing.T) {
	client := &fakeEC2{terminateErr: errors.New("UnauthorizedOperation")}
	svc := NewService(client)

	err := svc.Terminate(context.Background(), "i-0123456789abcdef0")
	assert.Error(t, err)
}
