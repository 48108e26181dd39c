package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"narration-backend/internal/config"
	"narration-backend/internal/models"
)

// R2Exporter copies archive snapshots to an S3-compatible bucket
// (Cloudflare R2 in production). Export is best-effort; the caller logs
// failures and never blocks a boot on them.
type R2Exporter struct {
	client *s3.Client
	bucket string
}

// New builds an exporter from the backup config. Returns nil when no
// bucket is configured, which disables export entirely.
func New(ctx context.Context, cfg *config.Config) (*R2Exporter, error) {
	if cfg.Backup.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Backup.AccessKey,
			cfg.Backup.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Backup.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure s3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Backup.Endpoint)
		}
	})

	return &R2Exporter{client: client, bucket: cfg.Backup.Bucket}, nil
}

// ExportSnapshot uploads one snapshot as JSON under snapshots/
func (e *R2Exporter) ExportSnapshot(ctx context.Context, a *models.ArchiveSnapshot) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal snapshot %d: %w", a.ID, err)
	}

	key := fmt.Sprintf("snapshots/%s/snapshot_%d_engagement_%d.json",
		a.ArchivedAt.Format("2006-01"), a.ID, a.EngagementID)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload snapshot %d: %w", a.ID, err)
	}
	return nil
}
