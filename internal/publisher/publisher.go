// Package publisher stores finished report artifacts in S3 under
// timestamp-qualified keys.
package publisher

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// s3API is the subset of the S3 client used by the publisher.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads report workbooks to a fixed bucket and key prefix.
type Publisher struct {
	client s3API
	bucket string
	prefix string
	log    *zap.Logger
}

// New creates a Publisher from a resolved AWS configuration.
func New(cfg aws.Config, bucket, prefix string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
		log:    log,
	}
}

// Key returns the object key for a report generated at the given time.
func (p *Publisher) Key(generatedAt time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", p.prefix, generatedAt.UTC().Format("20060102_150405"))
}

// Publish uploads the workbook bytes and returns the object key.
func (p *Publisher) Publish(ctx context.Context, body []byte, generatedAt time.Time) (string, error) {
	key := p.Key(generatedAt)

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to s3://%s/%s: %w", p.bucket, key, err)
	}

	p.log.Info("report uploaded",
		zap.String("bucket", p.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(body)))

	return key, nil
}

// Bucket returns the configured bucket name.
func (p *Publisher) Bucket() string {
	return p.bucket
}
