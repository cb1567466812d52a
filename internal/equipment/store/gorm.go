package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/usecase"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
)

const defaultBatchSize = 500

type sessionModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false"`
	UserID         string    `gorm:"size:191;not null;index:idx_upload_sessions_user_uploaded,priority:1"`
	Filename       string    `gorm:"size:255;not null"`
	UploadedAt     time.Time `gorm:"not null;index:idx_upload_sessions_user_uploaded,priority:2"`
	TotalEquipment int       `gorm:"not null;default:0"`
	AvgFlowrate    *float64
	AvgPressure    *float64
	AvgTemperature *float64
	Records        []recordModel `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (sessionModel) TableName() string {
	return "upload_sessions"
}

type recordModel struct {
	ID          int64     `gorm:"primaryKey"`
	SessionID   int64     `gorm:"not null;index:idx_equipment_records_session_position,priority:1"`
	Position    int       `gorm:"not null;index:idx_equipment_records_session_position,priority:2"`
	Name        string    `gorm:"size:255;not null"`
	Type        string    `gorm:"size:255;not null"`
	Flowrate    float64   `gorm:"not null"`
	Pressure    float64   `gorm:"not null"`
	Temperature float64   `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (recordModel) TableName() string {
	return "equipment_records"
}

type overviewRow struct {
	ID             int64
	UserID         string
	Filename       string
	UploadedAt     time.Time
	TotalEquipment int
	AvgFlowrate    *float64
	AvgPressure    *float64
	AvgTemperature *float64
	RecordCount    int
}

// GormStore persists sessions and their records through gorm.
type GormStore struct {
	db        *gorm.DB
	batchSize int
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, batchSize: defaultBatchSize}
}

// Migrate creates or updates the tables used by the store.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&sessionModel{}, &recordModel{})
}

func (s *GormStore) Atomic(ctx context.Context, fn func(tx usecase.TxStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx, batchSize: s.batchSize})
	})
}

func (s *GormStore) GetSession(ctx context.Context, sessionID int64, userID string) (entity.Session, error) {
	var m sessionModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Session{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.Session{}, err
	}

	return toSession(m.ID, m.UserID, m.Filename, m.UploadedAt, m.TotalEquipment, m.AvgFlowrate, m.AvgPressure, m.AvgTemperature), nil
}

func (s *GormStore) ListRecords(ctx context.Context, sessionID int64) ([]entity.Record, error) {
	var models []recordModel
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]entity.Record, 0, len(models))
	for _, m := range models {
		records = append(records, entity.Record{
			ID:          m.ID,
			SessionID:   m.SessionID,
			Position:    m.Position,
			Name:        m.Name,
			Type:        m.Type,
			Flowrate:    m.Flowrate,
			Pressure:    m.Pressure,
			Temperature: m.Temperature,
			CreatedAt:   m.CreatedAt,
		})
	}

	return records, nil
}

func (s *GormStore) ListSessions(ctx context.Context, userID string, limit int) ([]entity.SessionOverview, error) {
	query := s.db.WithContext(ctx).
		Table("upload_sessions AS s").
		Select("s.id, s.user_id, s.filename, s.uploaded_at, s.total_equipment, " +
			"s.avg_flowrate, s.avg_pressure, s.avg_temperature, " +
			"(SELECT COUNT(*) FROM equipment_records r WHERE r.session_id = s.id) AS record_count").
		Where("s.user_id = ?", userID).
		Order("s.uploaded_at DESC, s.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []overviewRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entity.SessionOverview, 0, len(rows))
	for _, r := range rows {
		items = append(items, entity.SessionOverview{
			Session:     toSession(r.ID, r.UserID, r.Filename, r.UploadedAt, r.TotalEquipment, r.AvgFlowrate, r.AvgPressure, r.AvgTemperature),
			RecordCount: r.RecordCount,
		})
	}

	return items, nil
}

type gormTx struct {
	db        *gorm.DB
	batchSize int
}

func (tx *gormTx) CreateSession(ctx context.Context, session entity.Session) error {
	m := sessionModel{
		ID:             session.ID,
		UserID:         session.UserID,
		Filename:       session.Filename,
		UploadedAt:     session.UploadedAt,
		TotalEquipment: session.TotalEquipment,
	}
	if session.Averages != nil {
		m.AvgFlowrate = &session.Averages.Flowrate
		m.AvgPressure = &session.Averages.Pressure
		m.AvgTemperature = &session.Averages.Temperature
	}

	return tx.db.WithContext(ctx).Create(&m).Error
}

func (tx *gormTx) CreateRecords(ctx context.Context, records []entity.Record) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]recordModel, 0, len(records))
	for _, rec := range records {
		models = append(models, recordModel{
			SessionID:   rec.SessionID,
			Position:    rec.Position,
			Name:        rec.Name,
			Type:        rec.Type,
			Flowrate:    rec.Flowrate,
			Pressure:    rec.Pressure,
			Temperature: rec.Temperature,
			CreatedAt:   rec.CreatedAt,
		})
	}

	return tx.db.WithContext(ctx).CreateInBatches(&models, tx.batchSize).Error
}

func (tx *gormTx) SetAverages(ctx context.Context, sessionID int64, avg entity.Averages) error {
	res := tx.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"avg_flowrate":    avg.Flowrate,
			"avg_pressure":    avg.Pressure,
			"avg_temperature": avg.Temperature,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerror.ErrNotFound
	}

	return nil
}

func toSession(id int64, userID, filename string, uploadedAt time.Time, total int, flowrate, pressure, temperature *float64) entity.Session {
	session := entity.Session{
		ID:             id,
		UserID:         userID,
		Filename:       filename,
		UploadedAt:     uploadedAt.UTC(),
		TotalEquipment: total,
	}
	if flowrate != nil && pressure != nil && temperature != nil {
		session.Averages = &entity.Averages{
			Flowrate:    *flowrate,
			Pressure:    *pressure,
			Temperature: *temperature,
		}
	}
	return session
}

var _ usecase.Store = (*GormStore)(nil)
