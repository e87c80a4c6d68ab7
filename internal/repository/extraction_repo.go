package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/evalio-go-api/internal/extract"
)

// ErrExtractionNotFound indicates no extraction exists for the key.
var ErrExtractionNotFound = errors.New("extraction not found")

// ExtractionKey identifies one stored question/answer extraction. Exactly one
// teacher extraction exists per assignment; student extractions are keyed by
// submission.
type ExtractionKey struct {
	CourseID     int64
	AssignmentID int64
	IsTeacher    bool
	SubmissionID int64
}

func (k ExtractionKey) storageKey() string {
	if k.IsTeacher {
		return fmt.Sprintf("extraction:%d:%d:teacher", k.CourseID, k.AssignmentID)
	}
	return fmt.Sprintf("extraction:%d:%d:submission:%d", k.CourseID, k.AssignmentID, k.SubmissionID)
}

// ExtractionRepository persists QA extractions in the document store.
// Upserts are idempotent: re-extracting the same key overwrites it.
type ExtractionRepository interface {
	Upsert(ctx context.Context, key ExtractionKey, set extract.QASet) error
	Find(ctx context.Context, key ExtractionKey) (extract.QASet, error)
	Delete(ctx context.Context, key ExtractionKey) error
}

type extractionRepository struct {
	client *redis.Client
}

// NewExtractionRepository instantiates the repository.
func NewExtractionRepository(client *redis.Client) ExtractionRepository {
	return &extractionRepository{client: client}
}

func (r *extractionRepository) Upsert(ctx context.Context, key ExtractionKey, set extract.QASet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal extraction: %w", err)
	}

	if err := r.client.Set(ctx, key.storageKey(), payload, 0).Err(); err != nil {
		return fmt.Errorf("store extraction: %w", err)
	}

	return nil
}

func (r *extractionRepository) Find(ctx context.Context, key ExtractionKey) (extract.QASet, error) {
	raw, err := r.client.Get(ctx, key.storageKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return extract.QASet{}, ErrExtractionNotFound
		}
		return extract.QASet{}, fmt.Errorf("load extraction: %w", err)
	}

	var set extract.QASet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return extract.QASet{}, fmt.Errorf("decode extraction: %w", err)
	}

	return set, nil
}

func (r *extractionRepository) Delete(ctx context.Context, key ExtractionKey) error {
	if err := r.client.Del(ctx, key.storageKey()).Err(); err != nil {
		return fmt.Errorf("delete extraction: %w", err)
	}
	return nil
}
