package inbound

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/usecase"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgauth"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgerror"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgrouter"
)

var (
	errNoFile       = errors.New("No file uploaded") //nolint:staticcheck,revive // shown to the uploader as is
	errFileTooLarge = errors.New("file too large")
)

type HTTPEndpoint struct {
	uc             uc
	maxUploadBytes int64
}

func (h *HTTPEndpoint) UploadCSV(ctx context.Context, r *http.Request) (any, error) {
	if h.maxUploadBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	}

	filename, content, err := readUploadedFile(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Ingest(ctx, usecase.IngestInput{
		UserID:   pkgauth.GetUserID(ctx),
		Filename: filename,
		Content:  content,
		Encoding: strings.TrimSpace(r.URL.Query().Get("encoding")),
	})
	if err != nil {
		return nil, err
	}

	return UploadResponse{
		SessionID:      result.SessionID,
		TotalEquipment: result.TotalEquipment,
		Averages:       toHTTPAverages(result.Averages),
	}, nil
}

func (h *HTTPEndpoint) Summary(ctx context.Context, r *http.Request) (any, error) {
	sessionID, err := parseSessionID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Summary(ctx, pkgauth.GetUserID(ctx), sessionID)
	if err != nil {
		return nil, err
	}

	session := result.Session
	resp := SummaryResponse{
		SessionID:        session.ID,
		Filename:         session.Filename,
		UploadDate:       session.UploadedAt,
		TotalEquipment:   session.TotalEquipment,
		TypeDistribution: result.Distribution.Map(),
	}
	if session.Averages != nil {
		resp.Averages = toHTTPAverages(*session.Averages)
	}

	return resp, nil
}

func (h *HTTPEndpoint) Equipment(ctx context.Context, r *http.Request) (any, error) {
	sessionID, err := parseSessionID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Equipment(ctx, pkgauth.GetUserID(ctx), sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]Equipment, 0, len(result.Records))
	for _, rec := range result.Records {
		items = append(items, Equipment{
			ID:            rec.ID,
			EquipmentName: rec.Name,
			Type:          rec.Type,
			Flowrate:      rec.Flowrate,
			Pressure:      rec.Pressure,
			Temperature:   rec.Temperature,
			UploadSession: rec.SessionID,
		})
	}

	return EquipmentListResponse{items: items}, nil
}

func (h *HTTPEndpoint) History(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.History(ctx, pkgauth.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(result.Sessions))
	for _, s := range result.Sessions {
		item := HistoryItem{
			ID:             s.ID,
			Filename:       s.Filename,
			UploadDate:     s.UploadedAt,
			TotalEquipment: s.TotalEquipment,
			EquipmentCount: s.RecordCount,
		}
		if s.Averages != nil {
			item.AvgFlowrate = &s.Averages.Flowrate
			item.AvgPressure = &s.Averages.Pressure
			item.AvgTemperature = &s.Averages.Temperature
		}
		items = append(items, item)
	}

	return HistoryResponse{items: items}, nil
}

func (h *HTTPEndpoint) Charts(ctx context.Context, r *http.Request) (any, error) {
	sessionID, err := parseSessionID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Charts(ctx, pkgauth.GetUserID(ctx), sessionID)
	if err != nil {
		return nil, err
	}

	return ChartResponse{
		TypeDistribution: result.Distribution.Map(),
		EquipmentNames:   result.Names,
		Flowrates:        result.Flowrates,
		Pressures:        result.Pressures,
		Temperatures:     result.Temperatures,
	}, nil
}

func (h *HTTPEndpoint) PDF(ctx context.Context, r *http.Request) (any, error) {
	sessionID, err := parseSessionID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Report(ctx, pkgauth.GetUserID(ctx), sessionID)
	if err != nil {
		return nil, err
	}

	return PDFResponse{filename: result.Filename, content: result.Content}, nil
}

// parseSessionID treats ids that are not positive integers like unknown sessions.
func parseSessionID(ctx context.Context) (int64, error) {
	id, ok := pkgrouter.GetParamID(ctx, "session_id")
	if !ok {
		return 0, pkgerror.NewBusiness("session not found", pkgerror.CodeNotFound)
	}
	return id, nil
}

// readUploadedFile returns the name and content of the multipart part named "file".
func readUploadedFile(r *http.Request) (string, []byte, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return "", nil, pkgerror.NewBadRequest(errNoFile)
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return "", nil, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", nil, pkgerror.NewBadRequest(errNoFile)
			}
			return "", nil, uploadReadErr(err)
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return "", nil, uploadReadErr(err)
		}

		return part.FileName(), content, nil
	}
}

func uploadReadErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerror.NewBadRequest(errFileTooLarge)
	}
	return pkgerror.NewInvalidFormat()
}
