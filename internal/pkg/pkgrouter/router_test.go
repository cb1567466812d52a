package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
)

type pdfFile struct{}

func (pdfFile) ContentType() string { return "application/pdf" }
func (pdfFile) Filename() string    { return "report_1.pdf" }
func (pdfFile) Bytes() []byte       { return []byte("%PDF-1.3") }

type createdResponse struct {
	ID string `json:"id"`
}

func (createdResponse) StatusCode() int { return http.StatusCreated }
func (createdResponse) Message() string { return "created" }

func serve(t *testing.T, h Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	router := NewRouter(&staticGenerator{value: "cid"})
	router.endpoint(method, "/x", h)

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterWritesFileResponses(t *testing.T) {
	rec := serve(t, func(context.Context, *http.Request) (any, error) {
		return pdfFile{}, nil
	}, http.MethodGet, "/x")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=report_1.pdf` {
		t.Fatalf("unexpected disposition: %q", got)
	}
	if got := rec.Body.String(); got != "%PDF-1.3" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestRouterEnvelopeAndErrors(t *testing.T) {
	rec := serve(t, func(context.Context, *http.Request) (any, error) {
		return createdResponse{ID: "1"}, nil
	}, http.MethodPost, "/x")

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var env struct {
		Message string          `json:"message"`
		Data    createdResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Message != "created" || env.Data.ID != "1" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	rec = serve(t, func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewBadRequest(errors.New("Missing column: Type"))
	}, http.MethodGet, "/x")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Missing column: Type" {
		t.Fatalf("unexpected message: %q", body.Message)
	}

	rec = serve(t, func(context.Context, *http.Request) (any, error) {
		return nil, errors.New("raw failure")
	}, http.MethodGet, "/x")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
