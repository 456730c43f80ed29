// Package backup snapshots the ledger's persisted documents to
// S3-compatible object storage (AWS S3, MinIO, Cloudflare R2, etc.).
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sambright/nestegg/internal/model"
	"github.com/sambright/nestegg/internal/repository"
)

// Snapshot is the single JSON document a backup uploads: every persisted
// collection plus the moment it was taken.
type Snapshot struct {
	TakenAt      time.Time                    `json:"taken_at"`
	ActiveGoalID string                       `json:"active_goal_id,omitempty"`
	Goals        []model.Goal                 `json:"goals"`
	Milestones   map[string][]model.Milestone `json:"milestones"`
	Achievements []model.Achievement          `json:"achievements"`
}

type Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional: MinIO, R2, DO Spaces
	Timeout   time.Duration
}

type Service struct {
	client  *s3.Client
	bucket  string
	timeout time.Duration

	goals        repository.GoalRepository
	milestones   repository.MilestoneRepository
	achievements repository.AchievementRepository
}

func New(
	cfg Config,
	goals repository.GoalRepository,
	milestones repository.MilestoneRepository,
	achievements repository.AchievementRepository,
) (*Service, error) {
	ctx := context.Background()

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO and friends
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		client:       client,
		bucket:       cfg.Bucket,
		timeout:      timeout,
		goals:        goals,
		milestones:   milestones,
		achievements: achievements,
	}, nil
}

// Run serializes the current ledger state and uploads it as one object.
// Returns the object key.
func (s *Service) Run(ctx context.Context) (string, error) {
	snap, err := s.collect()
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := "snapshots/ledger-" + snap.TakenAt.UTC().Format("20060102T150405Z") + ".json"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	slog.Info("ledger snapshot uploaded", "bucket", s.bucket, "key", key, "bytes", len(raw))
	return key, nil
}

func (s *Service) collect() (*Snapshot, error) {
	goals, err := s.goals.Goals()
	if err != nil {
		return nil, err
	}
	active, err := s.goals.ActiveGoalID()
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.All()
	if err != nil {
		return nil, err
	}
	achievements, err := s.achievements.All()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		TakenAt:      time.Now(),
		ActiveGoalID: active,
		Goals:        goals,
		Milestones:   milestones,
		Achievements: achievements,
	}, nil
}
