package usecase

import "github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"

type IngestInput struct {
	UserID   string
	Filename string
	Content  []byte
	// Encoding overrides the configured text encoding for this upload.
	Encoding string
}

type IngestResult struct {
	SessionID      int64
	TotalEquipment int
	Averages       entity.Averages
}

type SummaryResult struct {
	Session      entity.Session
	Distribution entity.Distribution
}

type EquipmentResult struct {
	SessionID int64
	Records   []entity.Record
}

type ChartResult struct {
	SessionID    int64
	Names        []string
	Flowrates    []float64
	Pressures    []float64
	Temperatures []float64
	Distribution entity.Distribution
}

type ReportResult struct {
	Filename string
	Content  []byte
}

type HistoryResult struct {
	Sessions []entity.SessionOverview
}
