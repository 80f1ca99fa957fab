// Package awscloud implements the inventory, size-class, identity, and
// metric collectors on top of the AWS SDK. Each SDK client sits behind a
// narrow interface so tests can substitute fakes.
package awscloud

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// ec2API is the subset of the EC2 client used by the collectors.
type ec2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
}

// cloudwatchAPI is the subset of the CloudWatch client used by the collectors.
type cloudwatchAPI interface {
	GetMetricData(ctx context.Context, params *cloudwatch.GetMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error)
	ListMetrics(ctx context.Context, params *cloudwatch.ListMetricsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.ListMetricsOutput, error)
}

// stsAPI is the subset of the STS client used for the account lookup.
type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Client bundles the AWS service clients behind the collector methods.
type Client struct {
	ec2 ec2API
	cw  cloudwatchAPI
	sts stsAPI
	log *zap.Logger

	// lookbackMinutes is the trailing window for current-value queries.
	lookbackMinutes int

	// diskPaths filters which Linux mount paths are reported; a path
	// matches when it equals "/" or starts with one of these prefixes.
	diskPaths []string

	// specCache memoizes size-class lookups within a run. Fleets repeat
	// instance types heavily, so one DescribeInstanceTypes per type is
	// enough.
	specMu    sync.Mutex
	specCache map[string]domain.InstanceSpec
}

// Option configures a Client.
type Option func(*Client)

// WithLookback sets the trailing window, in minutes, for current-value queries.
func WithLookback(minutes int) Option {
	return func(c *Client) { c.lookbackMinutes = minutes }
}

// WithDiskPaths sets the Linux mount path filters.
func WithDiskPaths(paths []string) Option {
	return func(c *Client) { c.diskPaths = paths }
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client from a resolved AWS configuration.
func New(cfg aws.Config, opts ...Option) *Client {
	c := &Client{
		ec2:             ec2.NewFromConfig(cfg),
		cw:              cloudwatch.NewFromConfig(cfg),
		sts:             sts.NewFromConfig(cfg),
		log:             zap.NewNop(),
		lookbackMinutes: 10,
		diskPaths:       []string{"/", "/usr", "/hana"},
		specCache:       make(map[string]domain.InstanceSpec),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
