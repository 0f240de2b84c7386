package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type SQSConfig struct {
	Region            string
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	IndexQueueURL     string
	ArchiveQueueURL   string
	CleanupQueueURL   string
	WaitTimeSeconds   int32
	VisibilityTimeout int32
}

func DefaultSQSConfig() *SQSConfig {
	return &SQSConfig{
		Region:            getEnvWithDefault("AWS_REGION", "us-east-1"),
		Endpoint:          getEnvWithDefault("AWS_SQS_ENDPOINT", "http://localhost:4566"),
		AccessKeyID:       getEnvWithDefault("AWS_ACCESS_KEY_ID", "dummy"),
		SecretAccessKey:   getEnvWithDefault("AWS_SECRET_ACCESS_KEY", "dummy"),
		IndexQueueURL:     getEnvWithDefault("AWS_SQS_INDEX_QUEUE_URL", "http://localhost:4566/000000000000/tenant-guard-audit-index"),
		ArchiveQueueURL:   getEnvWithDefault("AWS_SQS_ARCHIVE_QUEUE_URL", "http://localhost:4566/000000000000/tenant-guard-audit-archive"),
		CleanupQueueURL:   getEnvWithDefault("AWS_SQS_CLEANUP_QUEUE_URL", "http://localhost:4566/000000000000/tenant-guard-audit-cleanup"),
		WaitTimeSeconds:   int32(getEnvIntWithDefault("AWS_SQS_WAIT_SECONDS", 20)),
		VisibilityTimeout: int32(getEnvIntWithDefault("AWS_SQS_VISIBILITY_TIMEOUT", 30)),
	}
}

func (c *SQSConfig) GetClient(ctx context.Context) (*sqs.Client, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == sqs.ServiceID {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           c.Endpoint,
				SigningRegion: c.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithEndpointResolverWithOptions(customResolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKeyID,
			c.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return sqs.NewFromConfig(cfg), nil
}
