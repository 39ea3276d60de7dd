// Package storage archives day analyses to S3-compatible object storage (AWS S3,
// Cloudflare R2, MinIO).
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pdv-backend/internal/config"
	"pdv-backend/internal/models"
	"pdv-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client used by the archive.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive writes day analyses as JSON objects. A nil *Archive is a no-op.
type Archive struct {
	client PutObjectAPI
	bucket string
	now    func() time.Time
}

// NewArchive builds the S3 client from configuration. It returns nil when storage
// is disabled.
func NewArchive(ctx context.Context, cfg *config.Config) (*Archive, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure object storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewArchiveWithClient(client, cfg.Storage.Bucket), nil
}

func NewArchiveWithClient(client PutObjectAPI, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket, now: timeutil.Now}
}

// Key returns the object key of an analysis stored at t.
func Key(date string, t time.Time) string {
	return fmt.Sprintf("analyses/%s/%s.json", date, t.Format("20060102_150405"))
}

// SaveDayAnalysis uploads analysis and returns its object key.
func (a *Archive) SaveDayAnalysis(ctx context.Context, analysis *models.DayAnalysis) (string, error) {
	if a == nil {
		return "", nil
	}

	body, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}

	key := Key(analysis.Date, a.now())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("[Archive] Stored %s (%d bytes)", key, len(body))
	return key, nil
}
