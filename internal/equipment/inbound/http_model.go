package inbound

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"
)

// Session ids are encoded as strings; snowflake values exceed what JSON
// numbers can carry without loss in browsers.

type Averages struct {
	Flowrate    float64 `json:"flowrate"`
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
}

func toHTTPAverages(avg entity.Averages) Averages {
	return Averages(avg)
}

type UploadResponse struct {
	SessionID      int64    `json:"session_id,string"`
	TotalEquipment int      `json:"total_equipment"`
	Averages       Averages `json:"averages"`
}

func (UploadResponse) StatusCode() int {
	return http.StatusCreated
}

func (UploadResponse) Message() string {
	return "CSV uploaded successfully"
}

type SummaryResponse struct {
	SessionID        int64          `json:"session_id,string"`
	Filename         string         `json:"filename"`
	UploadDate       time.Time      `json:"upload_date"`
	TotalEquipment   int            `json:"total_equipment"`
	Averages         Averages       `json:"averages"`
	TypeDistribution map[string]int `json:"type_distribution"`
}

type Equipment struct {
	ID            int64   `json:"id,string"`
	EquipmentName string  `json:"equipment_name"`
	Type          string  `json:"type"`
	Flowrate      float64 `json:"flowrate"`
	Pressure      float64 `json:"pressure"`
	Temperature   float64 `json:"temperature"`
	UploadSession int64   `json:"upload_session,string"`
}

type EquipmentListResponse struct {
	items []Equipment
}

func (r EquipmentListResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.items)
}

func (r EquipmentListResponse) Meta() map[string]any {
	return map[string]any{"total": len(r.items)}
}

type HistoryItem struct {
	ID             int64     `json:"id,string"`
	Filename       string    `json:"filename"`
	UploadDate     time.Time `json:"upload_date"`
	TotalEquipment int       `json:"total_equipment"`
	AvgFlowrate    *float64  `json:"avg_flowrate"`
	AvgPressure    *float64  `json:"avg_pressure"`
	AvgTemperature *float64  `json:"avg_temperature"`
	EquipmentCount int       `json:"equipment_count"`
}

type HistoryResponse struct {
	items []HistoryItem
}

func (r HistoryResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.items)
}

type ChartResponse struct {
	TypeDistribution map[string]int `json:"type_distribution"`
	EquipmentNames   []string       `json:"equipment_names"`
	Flowrates        []float64      `json:"flowrates"`
	Pressures        []float64      `json:"pressures"`
	Temperatures     []float64      `json:"temperatures"`
}

// PDFResponse is written raw by the router instead of the JSON envelope.
type PDFResponse struct {
	filename string
	content  []byte
}

func (PDFResponse) ContentType() string {
	return "application/pdf"
}

func (r PDFResponse) Filename() string {
	return r.filename
}

func (r PDFResponse) Bytes() []byte {
	return r.content
}
