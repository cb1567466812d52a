package store

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/usecase"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
)

// InMemoryStore keeps sessions in process memory. Writes made inside Atomic
// are staged and only applied when the callback succeeds.
type InMemoryStore struct {
	mu           sync.RWMutex
	sessions     map[int64]*sessionEntry
	lastRecordID int64
}

type sessionEntry struct {
	session entity.Session
	records []entity.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[int64]*sessionEntry),
	}
}

func (s *InMemoryStore) Atomic(ctx context.Context, fn func(tx usecase.TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		parent: s,
		staged: make(map[int64]*sessionEntry),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for id, entry := range tx.staged {
		for i := range entry.records {
			s.lastRecordID++
			entry.records[i].ID = s.lastRecordID
		}
		s.sessions[id] = entry
	}

	return nil
}

func (s *InMemoryStore) GetSession(ctx context.Context, sessionID int64, userID string) (entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok || entry.session.UserID != userID {
		return entity.Session{}, pkgerror.ErrNotFound
	}

	return copySession(entry.session), nil
}

func (s *InMemoryStore) ListRecords(ctx context.Context, sessionID int64) ([]entity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	records := slices.Clone(entry.records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Position < records[j].Position
	})

	return records, nil
}

func (s *InMemoryStore) ListSessions(ctx context.Context, userID string, limit int) ([]entity.SessionOverview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entity.SessionOverview, 0, len(s.sessions))
	for _, entry := range s.sessions {
		if entry.session.UserID != userID {
			continue
		}
		items = append(items, entity.SessionOverview{
			Session:     copySession(entry.session),
			RecordCount: len(entry.records),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].UploadedAt.Equal(items[j].UploadedAt) {
			return items[i].UploadedAt.After(items[j].UploadedAt)
		}
		return items[i].ID > items[j].ID
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

type memoryTx struct {
	parent *InMemoryStore
	staged map[int64]*sessionEntry
}

func (tx *memoryTx) CreateSession(ctx context.Context, session entity.Session) error {
	if _, exists := tx.parent.sessions[session.ID]; exists {
		return pkgerror.NewBusiness("session already exists", pkgerror.CodeConflict)
	}
	if _, exists := tx.staged[session.ID]; exists {
		return pkgerror.NewBusiness("session already exists", pkgerror.CodeConflict)
	}

	tx.staged[session.ID] = &sessionEntry{session: copySession(session)}

	return nil
}

func (tx *memoryTx) CreateRecords(ctx context.Context, records []entity.Record) error {
	for _, rec := range records {
		entry, ok := tx.staged[rec.SessionID]
		if !ok {
			return errors.New("record references unknown session")
		}
		entry.records = append(entry.records, rec)
	}

	return nil
}

func (tx *memoryTx) SetAverages(ctx context.Context, sessionID int64, avg entity.Averages) error {
	entry, ok := tx.staged[sessionID]
	if !ok {
		return pkgerror.ErrNotFound
	}

	entry.session.Averages = &avg

	return nil
}

func copySession(session entity.Session) entity.Session {
	if session.Averages != nil {
		avg := *session.Averages
		session.Averages = &avg
	}
	return session
}

var _ usecase.Store = (*InMemoryStore)(nil)
