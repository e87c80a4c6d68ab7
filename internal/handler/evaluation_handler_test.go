package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/evalio-go-api/internal/config"
	"github.com/noah-isme/evalio-go-api/internal/dto"
	"github.com/noah-isme/evalio-go-api/internal/handler"
	"github.com/noah-isme/evalio-go-api/internal/router"
	"github.com/noah-isme/evalio-go-api/internal/service"
	"github.com/noah-isme/evalio-go-api/internal/utils"
)

type fakeEvaluationService struct {
	response dto.EvaluateResponse
	err      error
	request  dto.EvaluateRequest
}

func (f *fakeEvaluationService) Evaluate(_ context.Context, payload dto.EvaluateRequest) (dto.EvaluateResponse, error) {
	f.request = payload
	return f.response, f.err
}

func setupEvaluationApp(t *testing.T, svc service.EvaluationService) *fiber.App {
	t.Helper()

	app := fiber.New()
	evaluationHandler := handler.NewEvaluationHandler(svc, zerolog.New(io.Discard))
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		EvaluationHandler: evaluationHandler,
	})

	return app
}

func postRun(t *testing.T, app *fiber.App, body any) (*utils.APIResponse, int) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	request := httptest.NewRequest(fiber.MethodPost, "/api/v1/evaluations/runs", bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	var decoded utils.APIResponse
	require.NoError(t, json.NewDecoder(response.Body).Decode(&decoded))
	return &decoded, response.StatusCode
}

func TestEvaluationHandlerTriggersRun(t *testing.T) {
	svc := &fakeEvaluationService{
		response: dto.EvaluateResponse{
			RunID:        "run-123",
			CourseID:     1,
			AssignmentID: 2,
		},
	}
	app := setupEvaluationApp(t, svc)

	body, status := postRun(t, app, dto.EvaluateRequest{
		CourseID:      1,
		AssignmentID:  2,
		SubmissionIDs: []int64{3, 4},
	})

	require.Equal(t, fiber.StatusOK, status)
	require.True(t, body.Success)
	require.Equal(t, int64(2), svc.request.AssignmentID)
	require.Equal(t, []int64{3, 4}, svc.request.SubmissionIDs)
}

func TestEvaluationHandlerInvalidBody(t *testing.T) {
	app := setupEvaluationApp(t, &fakeEvaluationService{})

	request := httptest.NewRequest(fiber.MethodPost, "/api/v1/evaluations/runs", bytes.NewReader([]byte("{not json")))
	request.Header.Set("Content-Type", "application/json")

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()
	require.Equal(t, fiber.StatusBadRequest, response.StatusCode)
}

func TestEvaluationHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"assignment missing", service.ErrAssignmentNotFound, fiber.StatusNotFound},
		{"no submissions", service.ErrNoSubmissions, fiber.StatusNotFound},
		{"run in progress", service.ErrRunInProgress, fiber.StatusConflict},
		{"bad answer key", service.ErrAnswerKeyFormat, fiber.StatusUnprocessableEntity},
		{"bad submission", service.ErrSubmissionFormat, fiber.StatusUnprocessableEntity},
		{"missing answer key", service.ErrAnswerKeyMissing, fiber.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := setupEvaluationApp(t, &fakeEvaluationService{err: tc.err})

			body, status := postRun(t, app, dto.EvaluateRequest{
				CourseID:      1,
				AssignmentID:  2,
				SubmissionIDs: []int64{3},
			})

			require.Equal(t, tc.status, status)
			require.False(t, body.Success)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := setupEvaluationApp(t, &fakeEvaluationService{})

	request := httptest.NewRequest(fiber.MethodGet, "/api/v1/health", nil)
	response, err := app.Test(request, -1)
	require.NoError(t, err)
	defer func() { _ = response.Body.Close() }()

	require.Equal(t, fiber.StatusOK, response.StatusCode)
	require.Equal(t, "Test", response.Header.Get("X-Application"))
}
