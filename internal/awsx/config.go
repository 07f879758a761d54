// Package awsx loads aws.Config for the S3 and SQS clients.
package awsx

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadDefaultConfig is a seam for tests.
var loadDefaultConfig = config.LoadDefaultConfig

// LoadConfig uses static credentials when both keys are set and falls back
// to the default credential chain otherwise.
func LoadConfig(ctx context.Context, region, accessKeyID, secretAccessKey string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	return loadDefaultConfig(ctx, opts...)
}
