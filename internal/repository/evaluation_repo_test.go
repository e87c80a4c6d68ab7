package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/evalio-go-api/internal/evaluation"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	return redis.NewClient(&redis.Options{Addr: mini.Addr()})
}

func TestEvaluationRepositorySaveAndGet(t *testing.T) {
	repo := NewEvaluationRepository(newTestRedis(t))
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	record := evaluation.Record{CourseID: 1, AssignmentID: 2, SubmissionID: 3}
	record.Question(1).SetScore(evaluation.ComponentContext, 0.8, at)

	require.NoError(t, repo.Save(ctx, record))

	loaded, err := repo.Get(ctx, 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), loaded.SubmissionID)
	require.NotNil(t, loaded.Questions[0].Scores.Context)
	require.InDelta(t, 0.8, loaded.Questions[0].Scores.Context.Score, 1e-9)
	require.Nil(t, loaded.Questions[0].Scores.Plagiarism)
}

func TestEvaluationRepositoryGetMissing(t *testing.T) {
	repo := NewEvaluationRepository(newTestRedis(t))

	_, err := repo.Get(context.Background(), 1, 2, 99)
	require.ErrorIs(t, err, ErrEvaluationNotFound)
}

func TestEvaluationRepositoryBulkUpsertCreatesAndMerges(t *testing.T) {
	repo := NewEvaluationRepository(newTestRedis(t))
	ctx := context.Background()
	at := time.Now().UTC()

	scores := ComponentScores{
		10: {1: 0.9, 2: 0.4},
		11: {1: 0.2},
	}
	require.NoError(t, repo.BulkUpsertComponent(ctx, 1, 2, evaluation.ComponentContext, scores, at))

	// A second stage must merge into existing records without clobbering the
	// first stage's component.
	plagiarism := ComponentScores{
		10: {1: 0.95},
		11: {1: 0.1},
	}
	require.NoError(t, repo.BulkUpsertComponent(ctx, 1, 2, evaluation.ComponentPlagiarism, plagiarism, at))

	record, err := repo.Get(ctx, 1, 2, 10)
	require.NoError(t, err)
	require.Len(t, record.Questions, 2)
	require.InDelta(t, 0.9, record.Questions[0].Scores.Context.Score, 1e-9)
	require.InDelta(t, 0.95, record.Questions[0].Scores.Plagiarism.Score, 1e-9)
	require.Nil(t, record.Questions[1].Scores.Plagiarism)
}

func TestEvaluationRepositoryBulkUpsertIdempotent(t *testing.T) {
	repo := NewEvaluationRepository(newTestRedis(t))
	ctx := context.Background()

	scores := ComponentScores{5: {1: 0.6}}
	require.NoError(t, repo.BulkUpsertComponent(ctx, 1, 1, evaluation.ComponentGrammar, scores, time.Now()))
	require.NoError(t, repo.BulkUpsertComponent(ctx, 1, 1, evaluation.ComponentGrammar, scores, time.Now()))

	record, err := repo.Get(ctx, 1, 1, 5)
	require.NoError(t, err)
	require.Len(t, record.Questions, 1)
	require.InDelta(t, 0.6, record.Questions[0].Scores.Grammar.Score, 1e-9)
}

func TestEvaluationRepositoryListByAssignment(t *testing.T) {
	repo := NewEvaluationRepository(newTestRedis(t))
	ctx := context.Background()

	for _, id := range []int64{30, 10, 20} {
		require.NoError(t, repo.Save(ctx, evaluation.Record{CourseID: 1, AssignmentID: 2, SubmissionID: id}))
	}
	require.NoError(t, repo.Save(ctx, evaluation.Record{CourseID: 1, AssignmentID: 9, SubmissionID: 40}))

	records, err := repo.ListByAssignment(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, int64(10), records[0].SubmissionID)
	require.Equal(t, int64(20), records[1].SubmissionID)
	require.Equal(t, int64(30), records[2].SubmissionID)
}

func TestEvaluationRepositoryDeleteByAssignment(t *testing.T) {
	repo := NewEvaluationRepository(newTestRedis(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, evaluation.Record{CourseID: 1, AssignmentID: 2, SubmissionID: 3}))
	require.NoError(t, repo.Save(ctx, evaluation.Record{CourseID: 1, AssignmentID: 2, SubmissionID: 4}))
	require.NoError(t, repo.DeleteByAssignment(ctx, 1, 2))

	records, err := repo.ListByAssignment(ctx, 1, 2)
	require.NoError(t, err)
	require.Empty(t, records)

	_, err = repo.Get(ctx, 1, 2, 3)
	require.ErrorIs(t, err, ErrEvaluationNotFound)
}

func TestEvaluationRepositoryDeleteBySubmission(t *testing.T) {
	repo := NewEvaluationRepository(newTestRedis(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, evaluation.Record{CourseID: 1, AssignmentID: 2, SubmissionID: 3}))
	require.NoError(t, repo.Save(ctx, evaluation.Record{CourseID: 1, AssignmentID: 2, SubmissionID: 4}))
	require.NoError(t, repo.DeleteBySubmission(ctx, 1, 2, 3))

	records, err := repo.ListByAssignment(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, int64(4), records[0].SubmissionID)
}

func TestEvaluationRepositoryRunLock(t *testing.T) {
	repo := NewEvaluationRepository(newTestRedis(t))
	ctx := context.Background()

	acquired, err := repo.AcquireRunLock(ctx, 1, 2, "run-a", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = repo.AcquireRunLock(ctx, 1, 2, "run-b", time.Minute)
	require.NoError(t, err)
	require.False(t, acquired)

	// A different assignment is not contended.
	acquired, err = repo.AcquireRunLock(ctx, 1, 3, "run-c", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, repo.ReleaseRunLock(ctx, 1, 2))

	acquired, err = repo.AcquireRunLock(ctx, 1, 2, "run-d", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
}
