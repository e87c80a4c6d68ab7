package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/evalio-go-api/internal/dto"
	"github.com/noah-isme/evalio-go-api/internal/evaluation"
	"github.com/noah-isme/evalio-go-api/internal/extract"
	"github.com/noah-isme/evalio-go-api/internal/models"
	"github.com/noah-isme/evalio-go-api/internal/observability"
	"github.com/noah-isme/evalio-go-api/internal/repository"
	"github.com/noah-isme/evalio-go-api/internal/scoring"
	"github.com/noah-isme/evalio-go-api/pkg/ai"
	"github.com/noah-isme/evalio-go-api/pkg/detector"
	"github.com/noah-isme/evalio-go-api/pkg/grammar"
	"github.com/noah-isme/evalio-go-api/pkg/retrieval"
)

// Pipeline stage names, also used as event subjects and metric labels.
const (
	StageExtracting  = "extracting"
	StageContext     = "scoring_context"
	StagePlagiarism  = "scoring_plagiarism"
	StageAIDetection = "scoring_ai_detection"
	StageGrammar     = "scoring_grammar"
	StageAggregating = "aggregating"
	StageFeedback    = "generating_feedback"
	StageRun         = "run"
)

// ErrAssignmentNotFound indicates the assignment could not be located.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrNoSubmissions indicates none of the requested submissions exist.
var ErrNoSubmissions = errors.New("no submissions to evaluate")

// ErrRunInProgress indicates another run already holds the assignment lock.
var ErrRunInProgress = errors.New("evaluation run already in progress for this assignment")

// ErrAnswerKeyFormat indicates the teacher answer key carries no
// Question#/Answer# markers and the run is rejected before scoring.
var ErrAnswerKeyFormat = errors.New("answer key has no question/answer markers")

// ErrSubmissionFormat indicates a student document carries no markers.
var ErrSubmissionFormat = errors.New("submission has no question/answer markers")

// ErrAnswerKeyMissing indicates neither a key file nor a stored teacher
// extraction exists for the assignment.
var ErrAnswerKeyMissing = errors.New("no answer key available for assignment")

// SearcherRegistry hands out per-collection reference searchers.
type SearcherRegistry interface {
	For(collection string) (retrieval.Searcher, error)
}

// EvaluationConfig carries the orchestrator's tunables.
type EvaluationConfig struct {
	DefaultTotalGrade float64
	EnablePlagiarism  bool
	EnableAIDetection bool
	EnableGrammar     bool
	RunLockTTL        time.Duration
}

// EvaluationService runs the full scoring pipeline for one assignment batch.
type EvaluationService interface {
	Evaluate(ctx context.Context, payload dto.EvaluateRequest) (dto.EvaluateResponse, error)
}

type evaluationService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	extractions repository.ExtractionRepository
	evaluations repository.EvaluationRepository
	grades      repository.GradeRepository
	searchers   SearcherRegistry
	judge       ai.EquivalenceJudge
	embedder    ai.Embedder
	detector    detector.Detector
	corrector   grammar.Corrector
	feedback    FeedbackService
	events      RunEventPublisher
	validator   *validator.Validate
	logger      zerolog.Logger
	config      EvaluationConfig
	now         func() time.Time
}

// NewEvaluationService constructs the orchestrator. It is the only component
// with write authority over evaluation records.
func NewEvaluationService(
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	extractions repository.ExtractionRepository,
	evaluations repository.EvaluationRepository,
	grades repository.GradeRepository,
	searchers SearcherRegistry,
	judge ai.EquivalenceJudge,
	embedder ai.Embedder,
	detect detector.Detector,
	corrector grammar.Corrector,
	feedback FeedbackService,
	events RunEventPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
	cfg EvaluationConfig,
) EvaluationService {
	if cfg.DefaultTotalGrade <= 0 {
		cfg.DefaultTotalGrade = 100
	}

	if cfg.RunLockTTL <= 0 {
		cfg.RunLockTTL = 30 * time.Minute
	}

	if events == nil {
		events = nopRunEventPublisher{}
	}

	return &evaluationService{
		assignments: assignments,
		submissions: submissions,
		extractions: extractions,
		evaluations: evaluations,
		grades:      grades,
		searchers:   searchers,
		judge:       judge,
		embedder:    embedder,
		detector:    detect,
		corrector:   corrector,
		feedback:    feedback,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		config:      cfg,
		now:         time.Now,
	}
}

type evaluationRun struct {
	id           string
	courseID     int64
	assignmentID int64
	totalGrade   float64
	points       float64
	teacherSet   extract.QASet
	studentSets  map[int64]extract.QASet
	submissions  []models.Submission
}

func (s *evaluationService) Evaluate(ctx context.Context, payload dto.EvaluateRequest) (dto.EvaluateResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/evalio-go-api/internal/service/evaluation")
	ctx, span := tracer.Start(ctx, "evaluation.run")
	span.SetAttributes(
		attribute.Int64("evaluation.course_id", payload.CourseID),
		attribute.Int64("evaluation.assignment_id", payload.AssignmentID),
		attribute.Int("evaluation.submission_count", len(payload.SubmissionIDs)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluateResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluateResponse{}, ErrAssignmentNotFound
		}
		return dto.EvaluateResponse{}, err
	}

	if assignment.CourseID != payload.CourseID {
		return dto.EvaluateResponse{}, fmt.Errorf("assignment %d does not belong to course %d", payload.AssignmentID, payload.CourseID)
	}

	submissions, err := s.submissions.ListByIDs(ctx, payload.AssignmentID, payload.SubmissionIDs)
	if err != nil {
		return dto.EvaluateResponse{}, err
	}

	if len(submissions) == 0 {
		return dto.EvaluateResponse{}, ErrNoSubmissions
	}

	run := &evaluationRun{
		id:           uuid.NewString(),
		courseID:     payload.CourseID,
		assignmentID: payload.AssignmentID,
		totalGrade:   s.resolveTotalGrade(payload.TotalGrade, assignment.TotalGrade),
		studentSets:  make(map[int64]extract.QASet, len(submissions)),
		submissions:  submissions,
	}

	acquired, err := s.evaluations.AcquireRunLock(ctx, run.courseID, run.assignmentID, run.id, s.config.RunLockTTL)
	if err != nil {
		return dto.EvaluateResponse{}, err
	}
	if !acquired {
		return dto.EvaluateResponse{}, ErrRunInProgress
	}
	defer func() {
		if err := s.evaluations.ReleaseRunLock(context.WithoutCancel(ctx), run.courseID, run.assignmentID); err != nil {
			s.logger.Warn().Err(err).Str("run_id", run.id).Msg("failed to release run lock")
		}
	}()

	s.publish(ctx, run, StageRun, "started")

	response, err := s.runPipeline(ctx, run, assignment, payload.Options)
	if err != nil {
		observability.Runs().WithLabelValues("failed").Inc()
		s.publish(ctx, run, StageRun, "failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "run_failed")
		return dto.EvaluateResponse{}, err
	}

	observability.Runs().WithLabelValues("completed").Inc()
	s.publish(ctx, run, StageRun, "completed")

	return response, nil
}

func (s *evaluationService) runPipeline(ctx context.Context, run *evaluationRun, assignment models.Assignment, options dto.EvaluateOptions) (dto.EvaluateResponse, error) {
	if err := s.stage(ctx, run, StageExtracting, func() error {
		return s.extractStage(ctx, run, assignment)
	}); err != nil {
		return dto.EvaluateResponse{}, err
	}

	// Stale per-question data from a previous run configuration must not
	// leak into this result.
	if err := s.evaluations.DeleteByAssignment(ctx, run.courseID, run.assignmentID); err != nil {
		return dto.EvaluateResponse{}, err
	}

	run.points = run.totalGrade / float64(run.teacherSet.Len())

	if err := s.stage(ctx, run, StageContext, func() error {
		return s.contextStage(ctx, run)
	}); err != nil {
		return dto.EvaluateResponse{}, err
	}

	if resolveToggle(options.EnablePlagiarism, s.config.EnablePlagiarism) {
		if err := s.stage(ctx, run, StagePlagiarism, func() error {
			return s.plagiarismStage(ctx, run)
		}); err != nil {
			return dto.EvaluateResponse{}, err
		}
	}

	if resolveToggle(options.EnableAIDetection, s.config.EnableAIDetection) {
		if err := s.stage(ctx, run, StageAIDetection, func() error {
			return s.aiDetectionStage(ctx, run)
		}); err != nil {
			return dto.EvaluateResponse{}, err
		}
	}

	if resolveToggle(options.EnableGrammar, s.config.EnableGrammar) {
		if err := s.stage(ctx, run, StageGrammar, func() error {
			return s.grammarStage(ctx, run)
		}); err != nil {
			return dto.EvaluateResponse{}, err
		}
	}

	var records []evaluation.Record
	if err := s.stage(ctx, run, StageAggregating, func() error {
		var err error
		records, err = s.aggregateStage(ctx, run)
		return err
	}); err != nil {
		return dto.EvaluateResponse{}, err
	}

	if err := s.stage(ctx, run, StageFeedback, func() error {
		var err error
		records, err = s.feedbackStage(ctx, run, records)
		return err
	}); err != nil {
		return dto.EvaluateResponse{}, err
	}

	if err := s.persistGrades(ctx, run, records); err != nil {
		return dto.EvaluateResponse{}, err
	}

	response := dto.EvaluateResponse{
		RunID:        run.id,
		CourseID:     run.courseID,
		AssignmentID: run.assignmentID,
		Submissions:  make([]dto.SubmissionEvaluationResponse, 0, len(records)),
	}
	for _, record := range records {
		response.Submissions = append(response.Submissions, dto.NewSubmissionEvaluationResponse(record))
	}

	return response, nil
}

// extractStage parses the teacher key and every student document, backfills
// missing student answers against the key and upserts each extraction.
func (s *evaluationService) extractStage(ctx context.Context, run *evaluationRun, assignment models.Assignment) error {
	teacherKey := repository.ExtractionKey{CourseID: run.courseID, AssignmentID: run.assignmentID, IsTeacher: true}

	switch {
	case assignment.AnswerKeyPath != "":
		text, err := extract.LoadFile(assignment.AnswerKeyPath)
		if err != nil {
			return err
		}

		set, err := extract.Extract(text)
		if err != nil {
			if errors.Is(err, extract.ErrNoMarkers) {
				return ErrAnswerKeyFormat
			}
			return err
		}

		if err := s.extractions.Upsert(ctx, teacherKey, set); err != nil {
			return err
		}
		run.teacherSet = set
	default:
		set, err := s.extractions.Find(ctx, teacherKey)
		if err != nil {
			if errors.Is(err, repository.ErrExtractionNotFound) {
				return ErrAnswerKeyMissing
			}
			return err
		}
		run.teacherSet = set
	}

	for _, submission := range run.submissions {
		text, err := extract.LoadFile(submission.FilePath)
		if err != nil {
			return fmt.Errorf("submission %d: %w", submission.ID, err)
		}

		set, err := extract.Extract(text)
		if err != nil {
			if errors.Is(err, extract.ErrNoMarkers) {
				return fmt.Errorf("submission %d: %w", submission.ID, ErrSubmissionFormat)
			}
			return fmt.Errorf("submission %d: %w", submission.ID, err)
		}

		set = extract.Backfill(run.teacherSet, set)

		key := repository.ExtractionKey{CourseID: run.courseID, AssignmentID: run.assignmentID, SubmissionID: submission.ID}
		if err := s.extractions.Upsert(ctx, key, set); err != nil {
			return err
		}

		run.studentSets[submission.ID] = set
	}

	return nil
}

// contextStage scores semantic correctness per question across the batch.
// Retrieval happens once per question, not once per submission. External
// failures are absorbed to zero contributions; only persistence can fail the
// stage.
func (s *evaluationService) contextStage(ctx context.Context, run *evaluationRun) error {
	searcher := s.searcherForRun(run)
	scores := make(repository.ComponentScores, len(run.studentSets))
	for id := range run.studentSets {
		scores[id] = make(map[int]float64, run.teacherSet.Len())
	}

	for _, pair := range run.teacherSet.Pairs {
		reference := s.retrieveReference(ctx, searcher, pair.Question)
		if reference == "" {
			// Cannot evaluate without reference material.
			for id := range run.studentSets {
				scores[id][pair.Number] = 0
			}
			continue
		}

		embeddings := s.embedQuestionBatch(ctx, run, reference, pair)

		for id, set := range run.studentSets {
			answer, _ := set.Answer(pair.Number)
			if strings.TrimSpace(answer) == "" {
				scores[id][pair.Number] = 0
				continue
			}

			signals := scoring.ContextSignals{
				Judge:     s.judgeScore(ctx, pair.Question, reference, answer),
				Reference: embeddings.referenceSimilarity(id),
				Question:  embeddings.questionSimilarity(id),
			}
			scores[id][pair.Number] = signals.Combine()
		}
	}

	return s.evaluations.BulkUpsertComponent(ctx, run.courseID, run.assignmentID, evaluation.ComponentContext, scores, s.now())
}

// plagiarismStage compares every pair of submissions once per question.
func (s *evaluationService) plagiarismStage(ctx context.Context, run *evaluationRun) error {
	scores := make(repository.ComponentScores, len(run.studentSets))
	for id := range run.studentSets {
		scores[id] = make(map[int]float64, run.teacherSet.Len())
	}

	for _, pair := range run.teacherSet.Pairs {
		answers := make(map[int64]string, len(run.studentSets))
		for id, set := range run.studentSets {
			answer, _ := set.Answer(pair.Number)
			answers[id] = answer
		}

		for id, similarity := range scoring.PairwiseMax(answers) {
			scores[id][pair.Number] = similarity
		}
	}

	return s.evaluations.BulkUpsertComponent(ctx, run.courseID, run.assignmentID, evaluation.ComponentPlagiarism, scores, s.now())
}

// aiDetectionStage asks the external classifier per answer; an unreachable
// classifier scores 0 (benefit of the doubt) and never aborts the batch.
func (s *evaluationService) aiDetectionStage(ctx context.Context, run *evaluationRun) error {
	scores := make(repository.ComponentScores, len(run.studentSets))

	for id, set := range run.studentSets {
		scores[id] = make(map[int]float64, len(set.Pairs))
		for _, pair := range set.Pairs {
			if strings.TrimSpace(pair.Answer) == "" {
				scores[id][pair.Number] = 0
				continue
			}

			probability, err := s.detector.Detect(ctx, pair.Answer)
			if err != nil {
				s.logger.Warn().Err(err).
					Int64("submission_id", id).
					Int("question", pair.Number).
					Msg("ai detection failed, scoring 0")
				observability.StageFailures().WithLabelValues(StageAIDetection).Inc()
				probability = 0
			}
			scores[id][pair.Number] = probability
		}
	}

	return s.evaluations.BulkUpsertComponent(ctx, run.courseID, run.assignmentID, evaluation.ComponentAIDetection, scores, s.now())
}

// grammarStage corrects each answer and scores the share of retained words.
func (s *evaluationService) grammarStage(ctx context.Context, run *evaluationRun) error {
	scores := make(repository.ComponentScores, len(run.studentSets))

	for id, set := range run.studentSets {
		scores[id] = make(map[int]float64, len(set.Pairs))
		for _, pair := range set.Pairs {
			corrected, err := s.corrector.Correct(ctx, pair.Answer)
			if err != nil {
				s.logger.Warn().Err(err).
					Int64("submission_id", id).
					Int("question", pair.Number).
					Msg("grammar correction failed, treating answer as correct")
				observability.StageFailures().WithLabelValues(StageGrammar).Inc()
				corrected = pair.Answer
			}
			scores[id][pair.Number] = scoring.GrammarRetention(pair.Answer, corrected)
		}
	}

	return s.evaluations.BulkUpsertComponent(ctx, run.courseID, run.assignmentID, evaluation.ComponentGrammar, scores, s.now())
}

func (s *evaluationService) aggregateStage(ctx context.Context, run *evaluationRun) ([]evaluation.Record, error) {
	records, err := s.evaluations.ListByAssignment(ctx, run.courseID, run.assignmentID)
	if err != nil {
		return nil, err
	}

	at := s.now()
	for i := range records {
		scoring.AggregateSubmission(&records[i], run.points, at)
	}

	if err := s.evaluations.SaveAll(ctx, records); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *evaluationService) feedbackStage(ctx context.Context, run *evaluationRun, records []evaluation.Record) ([]evaluation.Record, error) {
	for i := range records {
		record := &records[i]
		set := run.studentSets[record.SubmissionID]

		texts := make([]string, 0, len(record.Questions))
		for j := range record.Questions {
			question := &record.Questions[j]
			questionText, _ := run.teacherSet.Question(question.QuestionNumber)
			answer, _ := set.Answer(question.QuestionNumber)

			content := s.feedback.QuestionFeedback(ctx, QuestionFeedbackInput{
				QuestionNumber: question.QuestionNumber,
				Question:       questionText,
				Answer:         answer,
				Scores:         question.Scores,
			})
			question.Feedback = &evaluation.Feedback{Content: content, GeneratedAt: s.now()}
			texts = append(texts, content)
		}

		overall := s.feedback.OverallFeedback(ctx, OverallFeedbackInput{
			QuestionFeedback: texts,
			Overall:          record.OverallScores,
		})
		record.OverallFeedback = &evaluation.Feedback{Content: overall, GeneratedAt: s.now()}
	}

	if err := s.evaluations.SaveAll(ctx, records); err != nil {
		return nil, err
	}

	return records, nil
}

// persistGrades mirrors the aggregates into the relational store in one
// transaction and flips the submissions to graded.
func (s *evaluationService) persistGrades(ctx context.Context, run *evaluationRun, records []evaluation.Record) error {
	err := s.grades.WithTx(ctx, func(repo repository.GradeRepository) error {
		for _, record := range records {
			grade := models.SubmissionGrade{
				SubmissionID: record.SubmissionID,
				AssignmentID: run.assignmentID,
				CourseID:     run.courseID,
				Feedback:     feedbackContent(record.OverallFeedback),
			}

			if record.OverallScores.Total != nil {
				grade.TotalScore = record.OverallScores.Total.Score
			}
			grade.PlagiarismScore = componentScore(record.OverallScores.Plagiarism)
			grade.AIDetectionScore = componentScore(record.OverallScores.AIDetection)
			grade.GrammarScore = componentScore(record.OverallScores.Grammar)

			questionScores := make(datatypes.JSONMap, len(record.Questions))
			for _, question := range record.Questions {
				if question.Scores.Total != nil {
					questionScores[strconv.Itoa(question.QuestionNumber)] = question.Scores.Total.Score
				}
			}
			grade.QuestionScores = questionScores

			if err := repo.Upsert(ctx, &grade); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist grades: %w", err)
	}

	recordBySubmission := make(map[int64]evaluation.Record, len(records))
	for _, record := range records {
		recordBySubmission[record.SubmissionID] = record
	}

	for i := range run.submissions {
		submission := &run.submissions[i]
		record, ok := recordBySubmission[submission.ID]
		if !ok {
			continue
		}

		if record.OverallScores.Total != nil {
			total := record.OverallScores.Total.Score
			submission.Grade = &total
		}
		submission.Feedback = feedbackContent(record.OverallFeedback)
		submission.Status = models.SubmissionStatusGraded

		if err := s.submissions.Update(ctx, submission); err != nil {
			s.logger.Error().Err(err).Int64("submission_id", submission.ID).Msg("failed to update submission status")
		}
	}

	return nil
}

func (s *evaluationService) stage(ctx context.Context, run *evaluationRun, name string, fn func() error) error {
	s.publish(ctx, run, name, "started")
	start := time.Now()

	err := fn()
	observability.StageDuration().WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		s.publish(ctx, run, name, "failed")
		return err
	}

	s.publish(ctx, run, name, "completed")
	return nil
}

func (s *evaluationService) publish(ctx context.Context, run *evaluationRun, stage, status string) {
	s.events.Publish(ctx, RunEvent{
		RunID:        run.id,
		CourseID:     run.courseID,
		AssignmentID: run.assignmentID,
		Stage:        stage,
		Status:       status,
		At:           s.now(),
	})
}

func (s *evaluationService) searcherForRun(run *evaluationRun) retrieval.Searcher {
	if s.searchers == nil {
		return nil
	}

	searcher, err := s.searchers.For(retrieval.CourseCollection(run.courseID))
	if err != nil {
		s.logger.Error().Err(err).Int64("course_id", run.courseID).Msg("failed to build reference searcher")
		return nil
	}

	return searcher
}

func (s *evaluationService) retrieveReference(ctx context.Context, searcher retrieval.Searcher, question string) string {
	if searcher == nil {
		return ""
	}

	passages, err := searcher.Search(ctx, question)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reference retrieval failed, scoring without reference")
		observability.StageFailures().WithLabelValues(StageContext).Inc()
		return ""
	}

	parts := make([]string, 0, len(passages))
	for _, passage := range passages {
		if text := strings.Join(strings.Fields(passage.Text), " "); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}

func (s *evaluationService) judgeScore(ctx context.Context, question, reference, answer string) float64 {
	if s.judge == nil {
		return 0
	}

	score, err := s.judge.ScoreEquivalence(ctx, question, reference, answer)
	if err != nil {
		s.logger.Warn().Err(err).Msg("equivalence judge failed, scoring 0")
		observability.StageFailures().WithLabelValues(StageContext).Inc()
		return 0
	}

	return score
}

// questionEmbeddings holds the embedding vectors for one question's batch:
// the reference, the question, and each submission's answer.
type questionEmbeddings struct {
	reference []float32
	question  []float32
	answers   map[int64][]float32
}

func (e questionEmbeddings) referenceSimilarity(submissionID int64) float64 {
	return scoring.CosineVectors(e.reference, e.answers[submissionID])
}

func (e questionEmbeddings) questionSimilarity(submissionID int64) float64 {
	return scoring.CosineVectors(e.question, e.answers[submissionID])
}

// embedQuestionBatch embeds the reference, the question and every answer in a
// single request. A failed embedding call degrades the similarity signals to
// zero, it never fails the stage.
func (s *evaluationService) embedQuestionBatch(ctx context.Context, run *evaluationRun, reference string, pair extract.Pair) questionEmbeddings {
	result := questionEmbeddings{answers: make(map[int64][]float32, len(run.studentSets))}
	if s.embedder == nil {
		return result
	}

	ids := make([]int64, 0, len(run.studentSets))
	texts := []string{reference, pair.Question}
	for id, set := range run.studentSets {
		answer, _ := set.Answer(pair.Number)
		if strings.TrimSpace(answer) == "" {
			continue
		}
		ids = append(ids, id)
		texts = append(texts, answer)
	}

	if len(ids) == 0 {
		return result
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		if err != nil {
			s.logger.Warn().Err(err).Int("question", pair.Number).Msg("embedding failed, similarity signals degrade to 0")
		}
		observability.StageFailures().WithLabelValues(StageContext).Inc()
		return result
	}

	result.reference = vectors[0]
	result.question = vectors[1]
	for i, id := range ids {
		result.answers[id] = vectors[i+2]
	}

	return result
}

func (s *evaluationService) resolveTotalGrade(requested, assignmentDefault float64) float64 {
	if requested > 0 {
		return requested
	}
	if assignmentDefault > 0 {
		return assignmentDefault
	}
	return s.config.DefaultTotalGrade
}

func resolveToggle(option *bool, fallback bool) bool {
	if option != nil {
		return *option
	}
	return fallback
}

func componentScore(component *evaluation.ScoreComponent) *float64 {
	if component == nil {
		return nil
	}
	score := component.Score
	return &score
}

func feedbackContent(feedback *evaluation.Feedback) string {
	if feedback == nil {
		return ""
	}
	return feedback.Content
}
