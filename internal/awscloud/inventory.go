package awscloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// ListInstances retrieves every instance in the region, regardless of
// lifecycle state, keyed by instance ID.
func (c *Client) ListInstances(ctx context.Context) (map[string]domain.Instance, error) {
	instances := make(map[string]domain.Instance)

	input := &ec2.DescribeInstancesInput{}
	for {
		out, err := c.ec2.DescribeInstances(ctx, input)
		if err != nil {
			return nil, wrapError("failed to describe instances", err)
		}
		for _, reservation := range out.Reservations {
			for _, inst := range reservation.Instances {
				converted := toDomainInstance(inst)
				instances[converted.ID] = converted
			}
		}
		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	return instances, nil
}

// toDomainInstance converts an EC2 instance to a domain.Instance. The Name
// tag becomes the display name, falling back to the instance ID.
func toDomainInstance(inst ec2types.Instance) domain.Instance {
	converted := domain.Instance{
		ID:           aws.ToString(inst.InstanceId),
		Platform:     "Linux/UNIX",
		InstanceType: string(inst.InstanceType),
		State:        "unknown",
	}
	converted.Name = converted.ID

	if inst.PlatformDetails != nil {
		converted.Platform = *inst.PlatformDetails
	}
	if converted.InstanceType == "" {
		converted.InstanceType = "Unknown"
	}
	if inst.State != nil {
		converted.State = string(inst.State.Name)
	}
	for _, tag := range inst.Tags {
		if aws.ToString(tag.Key) == "Name" {
			converted.Name = aws.ToString(tag.Value)
			break
		}
	}

	return converted
}
