package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/evalio-go-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assignment{}, &models.Submission{}, &models.SubmissionGrade{}))

	return db
}

func floatPointer(v float64) *float64 {
	return &v
}

func TestGradeRepositoryUpsertInsertsThenUpdates(t *testing.T) {
	db := newTestDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	grade := models.SubmissionGrade{
		SubmissionID:    3,
		AssignmentID:    2,
		CourseID:        1,
		TotalScore:      70,
		PlagiarismScore: floatPointer(0.1),
		Feedback:        "solid work",
	}
	require.NoError(t, repo.Upsert(ctx, &grade))

	updated := models.SubmissionGrade{
		SubmissionID: 3,
		AssignmentID: 2,
		CourseID:     1,
		TotalScore:   85,
		Feedback:     "even better after re-evaluation",
	}
	require.NoError(t, repo.Upsert(ctx, &updated))

	loaded, err := repo.GetBySubmission(ctx, 3)
	require.NoError(t, err)
	require.InDelta(t, 85.0, loaded.TotalScore, 1e-9)
	require.Equal(t, "even better after re-evaluation", loaded.Feedback)

	// Still exactly one row per submission.
	var count int64
	require.NoError(t, db.Model(&models.SubmissionGrade{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGradeRepositoryGetMissing(t *testing.T) {
	repo := NewGradeRepository(newTestDB(t))

	_, err := repo.GetBySubmission(context.Background(), 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGradeRepositoryDeleteByAssignment(t *testing.T) {
	repo := NewGradeRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.SubmissionGrade{SubmissionID: 1, AssignmentID: 2, CourseID: 1}))
	require.NoError(t, repo.Upsert(ctx, &models.SubmissionGrade{SubmissionID: 2, AssignmentID: 2, CourseID: 1}))
	require.NoError(t, repo.Upsert(ctx, &models.SubmissionGrade{SubmissionID: 3, AssignmentID: 9, CourseID: 1}))

	require.NoError(t, repo.DeleteByAssignment(ctx, 2))

	_, err := repo.GetBySubmission(ctx, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetBySubmission(ctx, 3)
	require.NoError(t, err)
}

func TestGradeRepositoryWithTxRollsBack(t *testing.T) {
	repo := NewGradeRepository(newTestDB(t))
	ctx := context.Background()

	err := repo.WithTx(ctx, func(tx GradeRepository) error {
		if err := tx.Upsert(ctx, &models.SubmissionGrade{SubmissionID: 5, AssignmentID: 2, CourseID: 1}); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	_, err = repo.GetBySubmission(ctx, 5)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubmissionRepositoryListAndUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	assignment := models.Assignment{CourseID: 1, Title: "Essay", TotalGrade: 100}
	require.NoError(t, db.Create(&assignment).Error)

	for i := 1; i <= 3; i++ {
		submission := models.Submission{
			AssignmentID: assignment.ID,
			StudentID:    int64(i),
			FilePath:     "/tmp/sub.txt",
			Status:       models.SubmissionStatusSubmitted,
		}
		require.NoError(t, db.Create(&submission).Error)
	}

	listed, err := repo.ListByIDs(ctx, assignment.ID, []int64{1, 3})
	require.NoError(t, err)
	require.Len(t, listed, 2)

	listed[0].Status = models.SubmissionStatusGraded
	listed[0].Grade = floatPointer(88)
	require.NoError(t, repo.Update(ctx, &listed[0]))

	loaded, err := repo.GetByID(ctx, listed[0].ID)
	require.NoError(t, err)
	require.True(t, loaded.IsGraded())
	require.InDelta(t, 88.0, *loaded.Grade, 1e-9)
}
