package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/usecase"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
)

var errAbort = errors.New("abort")

func newSession(id int64, user string, uploadedAt time.Time) entity.Session {
	return entity.Session{
		ID:             id,
		UserID:         user,
		Filename:       "plant.csv",
		UploadedAt:     uploadedAt,
		TotalEquipment: 2,
	}
}

func newRecords(sessionID int64, createdAt time.Time) []entity.Record {
	return []entity.Record{
		{SessionID: sessionID, Position: 0, Name: "P1", Type: "Pump", Flowrate: 10, Pressure: 5, Temperature: 20, CreatedAt: createdAt},
		{SessionID: sessionID, Position: 1, Name: "V1", Type: "Valve", Flowrate: 0, Pressure: 3, Temperature: 15, CreatedAt: createdAt},
	}
}

func seed(t *testing.T, s usecase.Store, session entity.Session) {
	t.Helper()

	err := s.Atomic(context.Background(), func(tx usecase.TxStore) error {
		ctx := context.Background()
		if err := tx.CreateSession(ctx, session); err != nil {
			return err
		}
		if err := tx.CreateRecords(ctx, newRecords(session.ID, session.UploadedAt)); err != nil {
			return err
		}
		return tx.SetAverages(ctx, session.ID, entity.Averages{Flowrate: 5, Pressure: 4, Temperature: 17.5})
	})
	if err != nil {
		t.Fatalf("Atomic() err = %v", err)
	}
}

// exerciseStore runs the behaviour every Store implementation must share.
func exerciseStore(t *testing.T, s usecase.Store) {
	t.Helper()

	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	seed(t, s, newSession(101, "alice", base))

	session, err := s.GetSession(ctx, 101, "alice")
	if err != nil {
		t.Fatalf("GetSession() err = %v", err)
	}
	if session.Averages == nil || *session.Averages != (entity.Averages{Flowrate: 5, Pressure: 4, Temperature: 17.5}) {
		t.Fatalf("GetSession() averages = %+v", session.Averages)
	}
	if !session.UploadedAt.Equal(base) || session.Filename != "plant.csv" || session.TotalEquipment != 2 {
		t.Fatalf("GetSession() = %+v", session)
	}

	if _, err := s.GetSession(ctx, 101, "bob"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetSession() foreign err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetSession(ctx, 999, "alice"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetSession() missing err = %v, want ErrNotFound", err)
	}

	records, err := s.ListRecords(ctx, 101)
	if err != nil {
		t.Fatalf("ListRecords() err = %v", err)
	}
	if len(records) != 2 || records[0].Name != "P1" || records[1].Name != "V1" {
		t.Fatalf("ListRecords() = %+v", records)
	}
	if records[1].Type != "Valve" || records[1].Pressure != 3 || records[1].Temperature != 15 || records[0].ID == 0 {
		t.Fatalf("ListRecords() fields = %+v", records[1])
	}

	// rollback: nothing written inside a failed callback is visible
	err = s.Atomic(ctx, func(tx usecase.TxStore) error {
		if err := tx.CreateSession(ctx, newSession(102, "alice", base.Add(time.Hour))); err != nil {
			return err
		}
		if err := tx.CreateRecords(ctx, newRecords(102, base)); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Atomic() err = %v, want %v", err, errAbort)
	}
	if _, err := s.GetSession(ctx, 102, "alice"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetSession() after rollback err = %v", err)
	}
	if records, _ := s.ListRecords(ctx, 102); len(records) != 0 {
		t.Fatalf("ListRecords() after rollback = %+v", records)
	}

	for i := int64(1); i <= 3; i++ {
		seed(t, s, newSession(200+i, "alice", base.Add(time.Duration(i)*time.Minute)))
	}
	seed(t, s, newSession(300, "bob", base.Add(time.Hour)))

	overview, err := s.ListSessions(ctx, "alice", 3)
	if err != nil {
		t.Fatalf("ListSessions() err = %v", err)
	}
	if len(overview) != 3 {
		t.Fatalf("ListSessions() len = %d, want 3", len(overview))
	}
	wantIDs := []int64{203, 202, 201}
	for i, item := range overview {
		if item.ID != wantIDs[i] || item.RecordCount != 2 || item.UserID != "alice" {
			t.Fatalf("ListSessions()[%d] = %+v", i, item)
		}
		if item.Averages == nil {
			t.Fatalf("ListSessions()[%d] missing averages", i)
		}
	}

	if err := s.Atomic(ctx, func(tx usecase.TxStore) error {
		return tx.SetAverages(ctx, 4242, entity.Averages{})
	}); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("SetAverages() unknown session err = %v", err)
	}
}
