package inbound

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/report"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/store"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/usecase"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgauth"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgrouter"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkguid"
)

const sampleCSV = "Equipment Name,Type,Flowrate,Pressure,Temperature\nP1,Pump,10,5,20\nV1,Valve,0,3,15\n"

type envelope[T any] struct {
	Message string         `json:"message"`
	Data    T              `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type testServer struct {
	router *pkgrouter.Router
	tokens *pkgauth.JWT
	store  *store.InMemoryStore
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	tokens, err := pkgauth.NewJWT([]byte("integration-secret"), "equipment-visualizer")
	if err != nil {
		t.Fatalf("NewJWT() err = %v", err)
	}
	ids, err := pkguid.NewSnowflake(3)
	if err != nil {
		t.Fatalf("NewSnowflake() err = %v", err)
	}

	storage := store.NewInMemoryStore()
	uc := usecase.New(usecase.Dependency{
		Store:   storage,
		Reports: report.NewPDF(report.Options{}),
		ID:      ids,
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc, pkgrouter.MiddlewareAuth(tokens), opts)

	return &testServer{router: router, tokens: tokens, store: storage}
}

func (s *testServer) token(t *testing.T, user string) string {
	t.Helper()
	token, err := s.tokens.Sign(user, time.Hour)
	if err != nil {
		t.Fatalf("Sign() err = %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, req *http.Request, user string) *httptest.ResponseRecorder {
	t.Helper()
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, user))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("note", "ignored"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload_csv/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestUploadAndQuery(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := srv.do(t, uploadRequest(t, "file", "plant.csv", []byte(sampleCSV)), "alice")
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}
	upload := decode[UploadResponse](t, rec)
	if upload.Message != "CSV uploaded successfully" {
		t.Fatalf("upload message = %q", upload.Message)
	}
	if upload.Data.TotalEquipment != 2 || upload.Data.Averages != (Averages{Flowrate: 5, Pressure: 4, Temperature: 17.5}) {
		t.Fatalf("upload data = %+v", upload.Data)
	}
	id := fmt.Sprint(upload.Data.SessionID)

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/summary/"+id+"/", nil), "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	summary := decode[SummaryResponse](t, rec).Data
	if summary.Filename != "plant.csv" || summary.TotalEquipment != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.TypeDistribution["Pump"] != 1 || summary.TypeDistribution["Valve"] != 1 || len(summary.TypeDistribution) != 2 {
		t.Fatalf("summary distribution = %+v", summary.TypeDistribution)
	}

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/equipment/"+id+"/", nil), "alice")
	equipment := decode[[]Equipment](t, rec).Data
	if len(equipment) != 2 || equipment[0].EquipmentName != "P1" || equipment[1].Type != "Valve" {
		t.Fatalf("equipment = %+v", equipment)
	}

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/charts/"+id+"/", nil), "alice")
	charts := decode[ChartResponse](t, rec).Data
	if strings.Join(charts.EquipmentNames, ",") != "P1,V1" || charts.Pressures[1] != 3 {
		t.Fatalf("charts = %+v", charts)
	}

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/history/", nil), "alice")
	history := decode[[]HistoryItem](t, rec).Data
	if len(history) != 1 || history[0].EquipmentCount != 2 || *history[0].AvgTemperature != 17.5 {
		t.Fatalf("history = %+v", history)
	}

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/pdf/"+id+"/", nil), "alice")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("pdf status = %d, content type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "equipment_report_"+id+".pdf") {
		t.Fatalf("pdf disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("pdf body is not a pdf")
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
		code int
		msg  string
	}{
		{
			name: "no file part",
			req:  func(t *testing.T) *http.Request { return uploadRequest(t, "document", "plant.csv", []byte(sampleCSV)) },
			code: http.StatusBadRequest,
			msg:  "No file uploaded",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/upload_csv/", strings.NewReader(sampleCSV))
				req.Header.Set("Content-Type", "text/csv")
				return req
			},
			code: http.StatusBadRequest,
			msg:  "No file uploaded",
		},
		{
			name: "empty file",
			req:  func(t *testing.T) *http.Request { return uploadRequest(t, "file", "empty.csv", nil) },
			code: http.StatusBadRequest,
			msg:  "Empty CSV file",
		},
		{
			name: "missing column",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "bad.csv", []byte("Equipment Name,Type,Flowrate,Pressure\nP1,Pump,1,2\n"))
			},
			code: http.StatusBadRequest,
			msg:  "Missing column: Temperature",
		},
		{
			name: "bad number",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "bad.csv", []byte(sampleCSV+"X,Pump,abc,1,1\n"))
			},
			code: http.StatusBadRequest,
			msg:  `Invalid number in row 3, column Flowrate: "abc"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, Options{})

			rec := srv.do(t, tc.req(t), "alice")
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tc.code, rec.Body.String())
			}
			var body struct {
				Message string `json:"message"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tc.msg {
				t.Fatalf("message = %q, want %q", body.Message, tc.msg)
			}

			history, _ := srv.store.ListSessions(t.Context(), "alice", 10)
			if len(history) != 0 {
				t.Fatalf("sessions after rejection = %d", len(history))
			}
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	srv := newTestServer(t, Options{MaxUploadBytes: 64})

	rec := srv.do(t, uploadRequest(t, "file", "plant.csv", []byte(strings.Repeat(sampleCSV, 4))), "alice")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "file too large") {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestAccessControl(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := srv.do(t, uploadRequest(t, "file", "plant.csv", []byte(sampleCSV)), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous upload status = %d", rec.Code)
	}

	rec = srv.do(t, uploadRequest(t, "file", "plant.csv", []byte(sampleCSV)), "alice")
	id := fmt.Sprint(decode[UploadResponse](t, rec).Data.SessionID)

	foreign := srv.do(t, httptest.NewRequest(http.MethodGet, "/api/summary/"+id+"/", nil), "bob")
	missing := srv.do(t, httptest.NewRequest(http.MethodGet, "/api/summary/12345/", nil), "bob")
	garbage := srv.do(t, httptest.NewRequest(http.MethodGet, "/api/summary/abc/", nil), "bob")

	for _, rec := range []*httptest.ResponseRecorder{foreign, missing, garbage} {
		if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "session not found") {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	}

	rec = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/history/", nil), "bob")
	if history := decode[[]HistoryItem](t, rec).Data; len(history) != 0 {
		t.Fatalf("bob sees %d sessions", len(history))
	}
}
