package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/evalio-go-api/internal/evaluation"
)

// ErrEvaluationNotFound indicates no evaluation record exists for the key.
var ErrEvaluationNotFound = errors.New("evaluation not found")

// ComponentScores maps submission id to question number to normalized score,
// the unit one scoring stage produces for a whole batch.
type ComponentScores map[int64]map[int]float64

// EvaluationRepository is the document store for evaluation records, keyed by
// (course_id, assignment_id, submission_id). All writes are upserts so that
// re-running a stage overwrites only its own component.
type EvaluationRepository interface {
	Get(ctx context.Context, courseID, assignmentID, submissionID int64) (evaluation.Record, error)
	Save(ctx context.Context, record evaluation.Record) error
	// SaveAll persists a batch of records in one pipelined round trip.
	SaveAll(ctx context.Context, records []evaluation.Record) error
	// BulkUpsertComponent writes one stage's scores for the whole batch in a
	// single pipelined round trip, creating records lazily as needed.
	BulkUpsertComponent(ctx context.Context, courseID, assignmentID int64, component evaluation.Component, scores ComponentScores, at time.Time) error
	ListByAssignment(ctx context.Context, courseID, assignmentID int64) ([]evaluation.Record, error)
	DeleteByAssignment(ctx context.Context, courseID, assignmentID int64) error
	DeleteBySubmission(ctx context.Context, courseID, assignmentID, submissionID int64) error
	// AcquireRunLock takes a best-effort lock so two concurrent runs for the
	// same assignment fail fast instead of interleaving writes.
	AcquireRunLock(ctx context.Context, courseID, assignmentID int64, runID string, ttl time.Duration) (bool, error)
	ReleaseRunLock(ctx context.Context, courseID, assignmentID int64) error
}

type evaluationRepository struct {
	client *redis.Client
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(client *redis.Client) EvaluationRepository {
	return &evaluationRepository{client: client}
}

func recordKey(courseID, assignmentID, submissionID int64) string {
	return fmt.Sprintf("evaluation:%d:%d:%d", courseID, assignmentID, submissionID)
}

func indexKey(courseID, assignmentID int64) string {
	return fmt.Sprintf("evaluation:%d:%d:index", courseID, assignmentID)
}

func lockKey(courseID, assignmentID int64) string {
	return fmt.Sprintf("evaluation:%d:%d:lock", courseID, assignmentID)
}

func (r *evaluationRepository) Get(ctx context.Context, courseID, assignmentID, submissionID int64) (evaluation.Record, error) {
	raw, err := r.client.Get(ctx, recordKey(courseID, assignmentID, submissionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return evaluation.Record{}, ErrEvaluationNotFound
		}
		return evaluation.Record{}, fmt.Errorf("load evaluation: %w", err)
	}

	var record evaluation.Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return evaluation.Record{}, fmt.Errorf("decode evaluation: %w", err)
	}

	return record, nil
}

func (r *evaluationRepository) Save(ctx context.Context, record evaluation.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, recordKey(record.CourseID, record.AssignmentID, record.SubmissionID), payload, 0)
	pipe.SAdd(ctx, indexKey(record.CourseID, record.AssignmentID), record.SubmissionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store evaluation: %w", err)
	}

	return nil
}

func (r *evaluationRepository) SaveAll(ctx context.Context, records []evaluation.Record) error {
	if len(records) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal evaluation: %w", err)
		}
		pipe.Set(ctx, recordKey(record.CourseID, record.AssignmentID, record.SubmissionID), payload, 0)
		pipe.SAdd(ctx, indexKey(record.CourseID, record.AssignmentID), record.SubmissionID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store evaluations: %w", err)
	}

	return nil
}

func (r *evaluationRepository) BulkUpsertComponent(ctx context.Context, courseID, assignmentID int64, component evaluation.Component, scores ComponentScores, at time.Time) error {
	if len(scores) == 0 {
		return nil
	}

	records := make([]evaluation.Record, 0, len(scores))
	for submissionID, questionScores := range scores {
		record, err := r.Get(ctx, courseID, assignmentID, submissionID)
		if err != nil {
			if !errors.Is(err, ErrEvaluationNotFound) {
				return err
			}
			record = evaluation.Record{CourseID: courseID, AssignmentID: assignmentID, SubmissionID: submissionID}
		}

		for number, score := range questionScores {
			record.Question(number).SetScore(component, score, at)
		}

		records = append(records, record)
	}

	pipe := r.client.TxPipeline()
	index := indexKey(courseID, assignmentID)
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal evaluation: %w", err)
		}
		pipe.Set(ctx, recordKey(courseID, assignmentID, record.SubmissionID), payload, 0)
		pipe.SAdd(ctx, index, record.SubmissionID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("bulk upsert %s scores: %w", component, err)
	}

	return nil
}

func (r *evaluationRepository) ListByAssignment(ctx context.Context, courseID, assignmentID int64) ([]evaluation.Record, error) {
	ids, err := r.client.SMembers(ctx, indexKey(courseID, assignmentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load evaluation index: %w", err)
	}

	records := make([]evaluation.Record, 0, len(ids))
	for _, id := range ids {
		var submissionID int64
		if _, err := fmt.Sscanf(id, "%d", &submissionID); err != nil {
			continue
		}

		record, err := r.Get(ctx, courseID, assignmentID, submissionID)
		if err != nil {
			if errors.Is(err, ErrEvaluationNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].SubmissionID < records[j].SubmissionID })

	return records, nil
}

func (r *evaluationRepository) DeleteByAssignment(ctx context.Context, courseID, assignmentID int64) error {
	index := indexKey(courseID, assignmentID)
	ids, err := r.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("load evaluation index: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, id := range ids {
		var submissionID int64
		if _, err := fmt.Sscanf(id, "%d", &submissionID); err != nil {
			continue
		}
		pipe.Del(ctx, recordKey(courseID, assignmentID, submissionID))
	}
	pipe.Del(ctx, index)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete evaluations: %w", err)
	}

	return nil
}

func (r *evaluationRepository) DeleteBySubmission(ctx context.Context, courseID, assignmentID, submissionID int64) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, recordKey(courseID, assignmentID, submissionID))
	pipe.SRem(ctx, indexKey(courseID, assignmentID), submissionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) AcquireRunLock(ctx context.Context, courseID, assignmentID int64, runID string, ttl time.Duration) (bool, error) {
	acquired, err := r.client.SetNX(ctx, lockKey(courseID, assignmentID), runID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	return acquired, nil
}

func (r *evaluationRepository) ReleaseRunLock(ctx context.Context, courseID, assignmentID int64) error {
	if err := r.client.Del(ctx, lockKey(courseID, assignmentID)).Err(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}
