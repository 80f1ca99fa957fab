package awscloud

import (
	"context"
	"math"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"go.uber.org/zap"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// InstanceSpec looks up the vCPU count and memory size for an instance
// type. Failed lookups return a zero spec (rendered as "Unknown") rather
// than an error; the report carries on without the numbers. Results are
// memoized for the lifetime of the Client.
func (c *Client) InstanceSpec(ctx context.Context, instanceType string) domain.InstanceSpec {
	c.specMu.Lock()
	if spec, ok := c.specCache[instanceType]; ok {
		c.specMu.Unlock()
		return spec
	}
	c.specMu.Unlock()

	spec := c.describeSpec(ctx, instanceType)

	c.specMu.Lock()
	c.specCache[instanceType] = spec
	c.specMu.Unlock()
	return spec
}

func (c *Client) describeSpec(ctx context.Context, instanceType string) domain.InstanceSpec {
	out, err := c.ec2.DescribeInstanceTypes(ctx, &ec2.DescribeInstanceTypesInput{
		InstanceTypes: []ec2types.InstanceType{ec2types.InstanceType(instanceType)},
	})
	if err != nil {
		c.log.Warn("instance type lookup failed",
			zap.String("instance_type", instanceType), zap.Error(err))
		return domain.InstanceSpec{}
	}
	if len(out.InstanceTypes) == 0 {
		return domain.InstanceSpec{}
	}

	info := out.InstanceTypes[0]
	spec := domain.InstanceSpec{Known: true}
	if info.VCpuInfo != nil && info.VCpuInfo.DefaultVCpus != nil {
		spec.VCPUs = int(*info.VCpuInfo.DefaultVCpus)
	}
	if info.MemoryInfo != nil && info.MemoryInfo.SizeInMiB != nil {
		spec.MemoryGB = math.Round(float64(*info.MemoryInfo.SizeInMiB)/1024*10) / 10
	}
	return spec
}
