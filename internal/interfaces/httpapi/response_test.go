package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/Marvel4tech/greenbal/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_KnownFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantHTTP   int
		wantReason string
		wantStatus string
	}{
		{name: "invalid input", err: usecase.ErrInvalidInput, wantHTTP: http.StatusBadRequest, wantReason: "invalidInput", wantStatus: "INVALID_ARGUMENT"},
		{name: "window closed", err: usecase.ErrWindowClosed, wantHTTP: http.StatusBadRequest, wantReason: "predictionWindowClosed", wantStatus: "FAILED_PRECONDITION"},
		{name: "match finished", err: usecase.ErrMatchFinished, wantHTTP: http.StatusBadRequest, wantReason: "matchFinished", wantStatus: "FAILED_PRECONDITION"},
		{name: "duplicate submission", err: usecase.ErrDuplicateSubmission, wantHTTP: http.StatusConflict, wantReason: "duplicateSubmission", wantStatus: "ALREADY_EXISTS"},
		{name: "not found", err: usecase.ErrNotFound, wantHTTP: http.StatusNotFound, wantReason: "notFound", wantStatus: "NOT_FOUND"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, wantHTTP: http.StatusUnauthorized, wantReason: "unauthorized", wantStatus: "UNAUTHENTICATED"},
		{name: "forbidden", err: usecase.ErrForbidden, wantHTTP: http.StatusForbidden, wantReason: "forbidden", wantStatus: "PERMISSION_DENIED"},
		{name: "not ready to score", err: usecase.ErrNotReadyToScore, wantHTTP: http.StatusUnprocessableEntity, wantReason: "notReadyToScore", wantStatus: "FAILED_PRECONDITION"},
		{name: "dependency unavailable", err: usecase.ErrDependencyUnavailable, wantHTTP: http.StatusServiceUnavailable, wantReason: "dependencyUnavailable", wantStatus: "UNAVAILABLE"},
		{name: "wrapped sentinel", err: fmt.Errorf("%w: match match-1 not found", usecase.ErrNotFound), wantHTTP: http.StatusNotFound, wantReason: "notFound", wantStatus: "NOT_FOUND"},
		{name: "unknown error", err: errors.New("database exploded"), wantHTTP: http.StatusInternalServerError, wantReason: "internalError", wantStatus: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if got.HTTPStatus != tt.wantHTTP {
				t.Fatalf("expected http status %d, got %d", tt.wantHTTP, got.HTTPStatus)
			}
			if got.Reason != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, got.Reason)
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("expected status %q, got %q", tt.wantStatus, got.Status)
			}
		})
	}
}
