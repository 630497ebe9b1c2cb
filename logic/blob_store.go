package logic

import (
	"bytes"
	"context"
	"fmt"
	"gibber/shared"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_blob_store.go -package mocks gibber/logic IBlobStore

// IBlobStore stores media bytes and returns the URL they are publicly served from.
type IBlobStore interface {
	PutObject(ctx context.Context, key string, data []byte, mime string) (url string, err error)
	DeleteObject(ctx context.Context, key string) error
}

type s3BlobStore struct {
	cfg       *shared.Config
	logger    shared.ILogger
	client    *s3.Client
	publicUrl string
}

// NewBlobStore connects to an S3-compatible store using path-style addressing.
func NewBlobStore(cfg *shared.Config, logger shared.ILogger) (IBlobStore, error) {

	bsCfg := cfg.BlobStore
	region := bsCfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Secrets.S3KeyId, cfg.Secrets.S3KeySecret, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if bsCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(bsCfg.Endpoint)
		}
	})

	publicUrl := strings.TrimRight(bsCfg.PublicUrl, "/")
	if publicUrl == "" {
		publicUrl = strings.TrimRight(bsCfg.Endpoint, "/") + "/" + bsCfg.Bucket
	}
	return &s3BlobStore{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		publicUrl: publicUrl,
	}, nil
}

func (bs *s3BlobStore) PutObject(ctx context.Context, key string, data []byte, mime string) (string, error) {

	_, err := bs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bs.cfg.BlobStore.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mime),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		bs.logger.Warnf("Failed to store blob %s: %v", key, err)
		return "", fmt.Errorf("failed to store blob %s: %w", key, err)
	}
	bs.logger.Debugf("Stored blob %s (%d bytes)", key, len(data))
	return bs.publicUrl + "/" + key, nil
}

func (bs *s3BlobStore) DeleteObject(ctx context.Context, key string) error {

	_, err := bs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bs.cfg.BlobStore.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	bs.logger.Debugf("Deleted blob %s", key)
	return nil
}
