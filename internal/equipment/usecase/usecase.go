package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkguid"
)

// DefaultHistoryLimit is how many sessions History returns when no limit is configured.
const DefaultHistoryLimit = 5

// TxStore is the write side of a Store, only valid inside Atomic.
type TxStore interface {
	CreateSession(ctx context.Context, session entity.Session) error
	CreateRecords(ctx context.Context, records []entity.Record) error
	SetAverages(ctx context.Context, sessionID int64, avg entity.Averages) error
}

type Store interface {
	// Atomic runs fn in a single transaction. Nothing written through tx is
	// visible to readers unless fn returns nil.
	Atomic(ctx context.Context, fn func(tx TxStore) error) error
	GetSession(ctx context.Context, sessionID int64, userID string) (entity.Session, error)
	ListRecords(ctx context.Context, sessionID int64) ([]entity.Record, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]entity.SessionOverview, error)
}

type ReportRenderer interface {
	Render(ctx context.Context, report entity.Report) ([]byte, error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store        Store
	Reports      ReportRenderer
	Clock        Clock
	ID           pkguid.NumberID
	Encoding     string
	HistoryLimit int
}

type Usecase struct {
	store        Store
	reports      ReportRenderer
	clock        Clock
	id           pkguid.NumberID
	encoding     string
	historyLimit int
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	encoding := dep.Encoding
	if encoding == "" {
		encoding = DefaultEncoding
	}

	limit := dep.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return &Usecase{
		store:        dep.Store,
		reports:      dep.Reports,
		clock:        clock,
		id:           dep.ID,
		encoding:     encoding,
		historyLimit: limit,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) Summary(ctx context.Context, userID string, sessionID int64) (SummaryResult, error) {
	session, records, err := u.loadSession(ctx, userID, sessionID)
	if err != nil {
		return SummaryResult{}, err
	}

	agg := aggregateRecords(records)
	session.TotalEquipment = agg.Count
	if session.Averages == nil {
		session.Averages = &agg.Averages
	}

	return SummaryResult{
		Session:      session,
		Distribution: agg.Distribution,
	}, nil
}

func (u *Usecase) Equipment(ctx context.Context, userID string, sessionID int64) (EquipmentResult, error) {
	session, records, err := u.loadSession(ctx, userID, sessionID)
	if err != nil {
		return EquipmentResult{}, err
	}

	return EquipmentResult{
		SessionID: session.ID,
		Records:   records,
	}, nil
}

func (u *Usecase) Charts(ctx context.Context, userID string, sessionID int64) (ChartResult, error) {
	session, records, err := u.loadSession(ctx, userID, sessionID)
	if err != nil {
		return ChartResult{}, err
	}

	res := ChartResult{
		SessionID:    session.ID,
		Names:        make([]string, 0, len(records)),
		Flowrates:    make([]float64, 0, len(records)),
		Pressures:    make([]float64, 0, len(records)),
		Temperatures: make([]float64, 0, len(records)),
	}
	for _, rec := range records {
		res.Names = append(res.Names, rec.Name)
		res.Flowrates = append(res.Flowrates, rec.Flowrate)
		res.Pressures = append(res.Pressures, rec.Pressure)
		res.Temperatures = append(res.Temperatures, rec.Temperature)
	}
	res.Distribution = aggregateRecords(records).Distribution

	return res, nil
}

func (u *Usecase) Report(ctx context.Context, userID string, sessionID int64) (ReportResult, error) {
	if u.reports == nil {
		return ReportResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	session, records, err := u.loadSession(ctx, userID, sessionID)
	if err != nil {
		return ReportResult{}, err
	}

	agg := aggregateRecords(records)
	session.TotalEquipment = agg.Count
	if session.Averages == nil {
		session.Averages = &agg.Averages
	}

	content, err := u.reports.Render(ctx, entity.Report{
		Session:      session,
		Distribution: agg.Distribution,
		Records:      records,
	})
	if err != nil {
		return ReportResult{}, normalizeErr(err)
	}

	return ReportResult{
		Filename: fmt.Sprintf("equipment_report_%d.pdf", session.ID),
		Content:  content,
	}, nil
}

func (u *Usecase) History(ctx context.Context, userID string) (HistoryResult, error) {
	if u.store == nil {
		return HistoryResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}
	if userID == "" {
		return HistoryResult{}, pkgerror.NewUnauthorized("authentication required")
	}

	sessions, err := u.store.ListSessions(ctx, userID, u.historyLimit)
	if err != nil {
		return HistoryResult{}, normalizeErr(err)
	}

	return HistoryResult{Sessions: sessions}, nil
}

// loadSession returns a session owned by userID together with its records in row order.
func (u *Usecase) loadSession(ctx context.Context, userID string, sessionID int64) (entity.Session, []entity.Record, error) {
	if u.store == nil {
		return entity.Session{}, nil, pkgerror.NewServer(errors.New("missing dependency"))
	}
	if userID == "" {
		return entity.Session{}, nil, pkgerror.NewUnauthorized("authentication required")
	}
	if sessionID <= 0 {
		return entity.Session{}, nil, errSessionNotFound()
	}

	session, err := u.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return entity.Session{}, nil, mapStoreErr(err)
	}

	records, err := u.store.ListRecords(ctx, sessionID)
	if err != nil {
		return entity.Session{}, nil, mapStoreErr(err)
	}

	return session, records, nil
}

func errSessionNotFound() error {
	return pkgerror.NewBusiness("session not found", pkgerror.CodeNotFound)
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return errSessionNotFound()
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
