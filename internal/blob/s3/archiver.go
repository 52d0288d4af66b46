package s3blob

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/alanyoungcy/predledger/internal/domain"
)

// multipartThreshold is the payload size above which the multipart upload
// manager is used instead of a single PutObject.
const multipartThreshold = 5 * 1024 * 1024

// Archiver implements domain.Archiver by uploading encoded slot contents to
// object storage under snapshots/<slot>/<timestamp>-<id>.bin. Snapshots are
// point-in-time copies; the authoritative state stays in the slot store.
type Archiver struct {
	client *s3.Client
	bucket string
}

// NewArchiver creates an Archiver uploading to the client's bucket.
func NewArchiver(c *Client) *Archiver {
	return &Archiver{
		client: c.S3(),
		bucket: c.Bucket(),
	}
}

// Archive uploads one snapshot of the slot's encoded bytes and returns the
// object key.
func (a *Archiver) Archive(ctx context.Context, slotKey string, data []byte) (string, error) {
	key := fmt.Sprintf("snapshots/%s/%s-%s.bin",
		slotKey,
		time.Now().UTC().Format("20060102T150405Z"),
		uuid.New().String()[:8],
	)

	if len(data) > multipartThreshold {
		uploader := manager.NewUploader(a.client)
		if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		}); err != nil {
			return "", fmt.Errorf("s3blob: multipart upload %s: %w", key, err)
		}
		return key, nil
	}

	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	}); err != nil {
		return "", fmt.Errorf("s3blob: put object %s: %w", key, err)
	}
	return key, nil
}

// Compile-time interface check.
var _ domain.Archiver = (*Archiver)(nil)
