package entity

import "time"

type Averages struct {
	Flowrate    float64
	Pressure    float64
	Temperature float64
}

type Session struct {
	ID             int64
	UserID         string
	Filename       string
	UploadedAt     time.Time
	TotalEquipment int

	// Averages stays nil until the ingestion that created the session writes it.
	Averages *Averages
}

// SessionOverview is a session together with the number of records stored for it.
type SessionOverview struct {
	Session
	RecordCount int
}
