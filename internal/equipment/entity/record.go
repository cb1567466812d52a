package entity

import "time"

type Record struct {
	ID          int64
	SessionID   int64
	Position    int
	Name        string
	Type        string
	Flowrate    float64
	Pressure    float64
	Temperature float64
	CreatedAt   time.Time
}
