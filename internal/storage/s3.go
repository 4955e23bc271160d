package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/expotoworld/expotoworld/backend/storefront-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
)

// ObjectAPI is the subset of the S3 client the snapshot source needs
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Snapshot reads the products table from a JSON export stored in S3.
// The object is a JSON array of rows in store naming.
type S3Snapshot struct {
	Client ObjectAPI
	Bucket string
	Key    string
}

// NewS3Snapshot builds a snapshot source using the default AWS credential chain
func NewS3Snapshot(ctx context.Context, cfg appconfig.S3Config) (*S3Snapshot, error) {
	region := cfg.Region
	if region == "" {
		region = "eu-central-1" // default to Frankfurt
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS default config: %w", err)
	}
	return &S3Snapshot{Client: s3.NewFromConfig(awsCfg), Bucket: cfg.Bucket, Key: cfg.Key}, nil
}

func (s *S3Snapshot) Enabled() bool {
	return s != nil && s.Client != nil && s.Bucket != "" && s.Key != ""
}

// FetchProducts downloads and decodes the snapshot object
func (s *S3Snapshot) FetchProducts(ctx context.Context) ([]models.ProductRow, error) {
	if !s.Enabled() {
		return nil, errors.New("s3 snapshot not configured")
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.Bucket,
		Key:    &s.Key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer out.Body.Close()

	rows, err := DecodeRows(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	return rows, nil
}

// Health checks that the snapshot object is reachable
func (s *S3Snapshot) Health(ctx context.Context) error {
	if !s.Enabled() {
		return errors.New("s3 snapshot not configured")
	}
	_, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.Bucket,
		Key:    &s.Key,
	})
	return err
}

// DecodeRows parses a JSON array of product rows
func DecodeRows(r io.Reader) ([]models.ProductRow, error) {
	var rows []models.ProductRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode product rows: %w", err)
	}
	return rows, nil
}
