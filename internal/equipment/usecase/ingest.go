package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
)

// Ingest validates an uploaded CSV, folds its rows and stores the session,
// its records and the averages in one transaction. A rejected or failed
// upload leaves no trace in the store.
func (u *Usecase) Ingest(ctx context.Context, in IngestInput) (IngestResult, error) {
	if u.store == nil || u.id == nil {
		return IngestResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}
	if in.UserID == "" {
		return IngestResult{}, pkgerror.NewUnauthorized("authentication required")
	}

	encoding := in.Encoding
	if encoding == "" {
		encoding = u.encoding
	}

	agg, err := accumulate(in.Content, encoding)
	if err != nil {
		slog.InfoContext(ctx, "csv upload rejected", "filename", in.Filename, "reason", err.Error())
		return IngestResult{}, pkgerror.NewBadRequest(err)
	}

	session := entity.Session{
		ID:             u.id.Generate(),
		UserID:         in.UserID,
		Filename:       in.Filename,
		UploadedAt:     u.clock.Now().UTC(),
		TotalEquipment: agg.Count,
	}

	if err := u.commit(ctx, session, agg); err != nil {
		slog.ErrorContext(ctx, "failed to store csv upload", "session_id", session.ID, "filename", in.Filename, "error", err)
		return IngestResult{}, pkgerror.NewServer(err)
	}

	slog.InfoContext(ctx, "csv upload stored", "session_id", session.ID, "records", agg.Count)

	return IngestResult{
		SessionID:      session.ID,
		TotalEquipment: agg.Count,
		Averages:       agg.Averages,
	}, nil
}

func (u *Usecase) commit(ctx context.Context, session entity.Session, agg Aggregation) error {
	records := make([]entity.Record, len(agg.Records))
	for i, rec := range agg.Records {
		rec.SessionID = session.ID
		rec.CreatedAt = session.UploadedAt
		records[i] = rec
	}

	err := u.store.Atomic(ctx, func(tx TxStore) error {
		if err := tx.CreateSession(ctx, session); err != nil {
			return &StorageError{Op: "create session", Err: err}
		}
		if err := tx.CreateRecords(ctx, records); err != nil {
			return &StorageError{Op: "create records", Err: err}
		}
		if err := tx.SetAverages(ctx, session.ID, agg.Averages); err != nil {
			return &StorageError{Op: "set averages", Err: err}
		}
		return nil
	})
	if err == nil {
		return nil
	}

	var serr *StorageError
	if errors.As(err, &serr) {
		return err
	}
	return &StorageError{Op: "commit", Err: err}
}
