package inbound

import (
	"context"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/usecase"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgrouter"
)

type uc interface {
	Ingest(ctx context.Context, in usecase.IngestInput) (usecase.IngestResult, error)
	Summary(ctx context.Context, userID string, sessionID int64) (usecase.SummaryResult, error)
	Equipment(ctx context.Context, userID string, sessionID int64) (usecase.EquipmentResult, error)
	Charts(ctx context.Context, userID string, sessionID int64) (usecase.ChartResult, error)
	Report(ctx context.Context, userID string, sessionID int64) (usecase.ReportResult, error)
	History(ctx context.Context, userID string) (usecase.HistoryResult, error)
}

type Options struct {
	// MaxUploadBytes bounds the request body of an upload; 0 means unbounded.
	MaxUploadBytes int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, auth pkgrouter.Middleware, opts Options) {
	end := &HTTPEndpoint{uc: uc, maxUploadBytes: opts.MaxUploadBytes}

	r.POST("/api/upload_csv/", end.UploadCSV, auth) // ?encoding=

	r.GET("/api/summary/:session_id/", end.Summary, auth)
	r.GET("/api/equipment/:session_id/", end.Equipment, auth)
	r.GET("/api/history/", end.History, auth)
	r.GET("/api/charts/:session_id/", end.Charts, auth)
	r.GET("/api/pdf/:session_id/", end.PDF, auth)
}
