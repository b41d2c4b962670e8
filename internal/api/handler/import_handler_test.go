package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/votegrid/voter-platform/internal/core/domain"
	"github.com/votegrid/voter-platform/internal/core/ports"
)

type stubImportService struct {
	uploadFn   func(ctx context.Context, uploaderID, filename string, file io.Reader) (*ports.UploadResult, error)
	commitFn   func(ctx context.Context, in ports.CommitInput) (*ports.CommitResult, error)
	sessionsFn func(ctx context.Context) ([]*domain.ImportSession, error)
}

func (s *stubImportService) Upload(ctx context.Context, uploaderID, filename string, file io.Reader) (*ports.UploadResult, error) {
	return s.uploadFn(ctx, uploaderID, filename, file)
}

func (s *stubImportService) Commit(ctx context.Context, in ports.CommitInput) (*ports.CommitResult, error) {
	return s.commitFn(ctx, in)
}

func (s *stubImportService) Sessions(ctx context.Context) ([]*domain.ImportSession, error) {
	return s.sessionsFn(ctx)
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestImportHandler_Upload_Success(t *testing.T) {
	e := newTestEcho()
	handler := NewImportHandler(&stubImportService{
		uploadFn: func(_ context.Context, uploaderID, filename string, file io.Reader) (*ports.UploadResult, error) {
			if uploaderID != "adm-1" || filename != "voters.csv" {
				t.Fatalf("unexpected args: %s %s", uploaderID, filename)
			}
			data, err := io.ReadAll(file)
			if err != nil {
				t.Fatalf("read upload: %v", err)
			}
			if !strings.HasPrefix(string(data), "Name,Age") {
				t.Fatalf("unexpected upload content: %q", data)
			}
			return &ports.UploadResult{
				SessionID: "sess-1",
				Columns:   []string{"Name", "Age"},
				TotalRows: 1,
			}, nil
		},
	}, 1<<20)

	body, contentType := multipartUpload(t, "file", "voters.csv", "Name,Age\nRavi,34\n")
	req := httptest.NewRequest(http.MethodPost, "/v1/import/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, testAdminClaims())

	if err := handler.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["session_id"] != "sess-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestImportHandler_Upload_MissingFile(t *testing.T) {
	e := newTestEcho()
	handler := NewImportHandler(&stubImportService{}, 1<<20)

	body, contentType := multipartUpload(t, "attachment", "voters.csv", "Name\nRavi\n")
	req := httptest.NewRequest(http.MethodPost, "/v1/import/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, testAdminClaims())

	err := handler.Upload(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestImportHandler_Upload_TooLarge(t *testing.T) {
	e := newTestEcho()
	handler := NewImportHandler(&stubImportService{}, 8)

	body, contentType := multipartUpload(t, "file", "voters.csv", "Name,Age\nRavi,34\n")
	req := httptest.NewRequest(http.MethodPost, "/v1/import/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, testAdminClaims())

	err := handler.Upload(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 HTTPError, got %v", err)
	}
}

func TestImportHandler_Commit_Success(t *testing.T) {
	e := newTestEcho()
	handler := NewImportHandler(&stubImportService{
		commitFn: func(_ context.Context, in ports.CommitInput) (*ports.CommitResult, error) {
			if in.SessionID != "sess-1" || in.AdminID != "adm-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.ColumnMapping["name_english"] != "Name" {
				t.Fatalf("mapping not bound: %+v", in.ColumnMapping)
			}
			return &ports.CommitResult{ImportedCount: 10, ErrorCount: 2, Errors: []domain.RowError{{RowNumber: 3}}}, nil
		},
	}, 1<<20)

	body := strings.NewReader(`{"session_id":"sess-1","column_mapping":{"name_english":"Name"},"admin_id":"adm-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/import/map-columns", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, testAdminClaims())

	if err := handler.Commit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["imported_count"] != float64(10) || resp["error_count"] != float64(2) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestImportHandler_Commit_MissingMapping(t *testing.T) {
	e := newTestEcho()
	handler := NewImportHandler(&stubImportService{
		commitFn: func(context.Context, ports.CommitInput) (*ports.CommitResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}, 1<<20)

	body := strings.NewReader(`{"session_id":"sess-1","admin_id":"adm-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/import/map-columns", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, testAdminClaims())

	err := handler.Commit(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestImportHandler_Commit_SessionGone(t *testing.T) {
	e := newTestEcho()
	handler := NewImportHandler(&stubImportService{
		commitFn: func(context.Context, ports.CommitInput) (*ports.CommitResult, error) {
			return nil, domain.ErrSessionNotFound
		},
	}, 1<<20)

	body := strings.NewReader(`{"session_id":"sess-9","column_mapping":{"name_english":"Name"},"admin_id":"adm-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/import/map-columns", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, testAdminClaims())

	if err := handler.Commit(c); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound passed through, got %v", err)
	}
}
