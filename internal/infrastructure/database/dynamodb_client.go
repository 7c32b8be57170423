package database

import (
	"context"
	"log"

	appconfig "studioflow/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewAWSConfig builds the shared SDK configuration.
//
// Static credentials are used when an access key is configured (including the decoded
// AWS_CREDENTIALS_B64 blob); otherwise the default provider chain applies. Local DynamoDB does
// not validate credentials, but the SDK requires some, so an endpoint override without keys
// falls back to "local"/"local".
func NewAWSConfig(ctx context.Context, c appconfig.AWS) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
	}

	switch {
	case c.AccessKeyID != "":
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken),
		))
	case c.DynamoEndpoint != "":
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// ConnectDynamoDB creates a DynamoDB client, honouring DYNAMODB_ENDPOINT for local runs.
func ConnectDynamoDB(cfg aws.Config, endpoint string) *dynamodb.Client {
	if endpoint != "" {
		log.Printf("[database][dynamodb] using endpoint=%s", endpoint)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
