package runner

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"github.com/sachinbhirud1998/Status/internal/awscloud"
	"github.com/sachinbhirud1998/Status/internal/collector"
	"github.com/sachinbhirud1998/Status/internal/config"
	"github.com/sachinbhirud1998/Status/internal/publisher"
)

// Build wires a Runner to live AWS clients using the default credential
// chain and the configured region.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Runner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}

	cloud := awscloud.New(awsCfg,
		awscloud.WithLookback(cfg.LookbackMinutes),
		awscloud.WithDiskPaths(cfg.AllowedDiskPaths()),
		awscloud.WithLogger(log),
	)
	coll := collector.New(cloud, cfg.Workers, log)
	pub := publisher.New(awsCfg, cfg.Bucket, cfg.KeyPrefix, log)

	return New(cfg, cloud, coll, pub, log), nil
}
