package awscloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"
)

// AccountNumber returns the AWS account ID for the active credentials,
// or "Unknown" when the lookup fails. The report header still renders
// without it.
func (c *Client) AccountNumber(ctx context.Context) string {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		c.log.Warn("account lookup failed", zap.Error(err))
		return "Unknown"
	}
	if out.Account == nil {
		return "Unknown"
	}
	return aws.ToString(out.Account)
}
