package usecase

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
)

var errInjected = errors.New("injected failure")

type testStore struct {
	mu       sync.RWMutex
	sessions map[int64]entity.Session
	records  map[int64][]entity.Record
	// failOn names a TxStore operation that fails with errInjected.
	failOn string
}

func newTestStore() *testStore {
	return &testStore{
		sessions: make(map[int64]entity.Session),
		records:  make(map[int64][]entity.Record),
	}
}

type testTx struct {
	store    *testStore
	sessions map[int64]entity.Session
	records  map[int64][]entity.Record
}

func (s *testStore) Atomic(ctx context.Context, fn func(tx TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &testTx{
		store:    s,
		sessions: make(map[int64]entity.Session),
		records:  make(map[int64][]entity.Record),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for id, session := range tx.sessions {
		s.sessions[id] = session
	}
	for id, records := range tx.records {
		s.records[id] = append(s.records[id], records...)
	}
	return nil
}

func (t *testTx) CreateSession(ctx context.Context, session entity.Session) error {
	if t.store.failOn == "create session" {
		return errInjected
	}
	t.sessions[session.ID] = session
	return nil
}

func (t *testTx) CreateRecords(ctx context.Context, records []entity.Record) error {
	if t.store.failOn == "create records" {
		return errInjected
	}
	for _, rec := range records {
		t.records[rec.SessionID] = append(t.records[rec.SessionID], rec)
	}
	return nil
}

func (t *testTx) SetAverages(ctx context.Context, sessionID int64, avg entity.Averages) error {
	if t.store.failOn == "set averages" {
		return errInjected
	}
	session, ok := t.sessions[sessionID]
	if !ok {
		return pkgerror.ErrNotFound
	}
	session.Averages = &avg
	t.sessions[sessionID] = session
	return nil
}

func (s *testStore) GetSession(ctx context.Context, sessionID int64, userID string) (entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return entity.Session{}, pkgerror.ErrNotFound
	}
	return session, nil
}

func (s *testStore) ListRecords(ctx context.Context, sessionID int64) ([]entity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := slices.Clone(s.records[sessionID])
	sort.Slice(records, func(i, j int) bool { return records[i].Position < records[j].Position })
	return records, nil
}

func (s *testStore) ListSessions(ctx context.Context, userID string, limit int) ([]entity.SessionOverview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.SessionOverview
	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		out = append(out, entity.SessionOverview{Session: session, RecordCount: len(s.records[session.ID])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *testStore) sessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type seqID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type stubRenderer struct {
	got entity.Report
	err error
}

func (r *stubRenderer) Render(ctx context.Context, report entity.Report) ([]byte, error) {
	r.got = report
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

func newTestUsecase(store *testStore) *Usecase {
	return New(Dependency{
		Store:   store,
		Reports: &stubRenderer{},
		Clock:   fixedClock{now: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		ID:      &seqID{},
	})
}
