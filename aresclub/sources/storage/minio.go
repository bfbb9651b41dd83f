package storage

import (
	"aresclub/aresclub/config"
	"aresclub/aresclub/utils/logging"
	"aresclub/aresclub/utils/types"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinIOClient struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// Transcript is the object written for one archive run.
type Transcript struct {
	ArchivedAt time.Time              `json:"archived_at"`
	Count      int                    `json:"count"`
	Messages   []types.MessagePayload `json:"messages"`
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOSecure,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		logging.AppLogger.Info("created transcript bucket", zap.String("bucket", bucket))
	}
	return &MinIOClient{client: client, bucket: bucket, now: time.Now}, nil
}

// TranscriptKey names the object for an archive taken at ts.
func TranscriptKey(ts time.Time, id uuid.UUID) string {
	return path.Join("transcripts", fmt.Sprintf("%s-%s.json", ts.UTC().Format("20060102T150405Z"), id))
}

// UploadTranscript writes msgs as one JSON object and returns its key.
func (m *MinIOClient) UploadTranscript(ctx context.Context, msgs []types.MessagePayload) (string, error) {
	defer logging.LogDuration(ctx, "storage.UploadTranscript")()

	ts := m.now().UTC()
	key := TranscriptKey(ts, uuid.New())
	data, err := json.Marshal(Transcript{ArchivedAt: ts, Count: len(msgs), Messages: msgs})
	if err != nil {
		return "", err
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

func (m *MinIOClient) GetTranscript(ctx context.Context, key string) (*Transcript, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &t, nil
}
