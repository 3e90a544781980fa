package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/catalog"
	"server/internal/imaging"
	"server/internal/infra"
	"server/internal/studio"
	"server/internal/vision"
)

type App struct {
	Log     *infra.Logger
	Catalog *catalog.Catalog
	Studio  *studio.Service

	// MaxUploadBytes bounds the request body on upload endpoints.
	MaxUploadBytes int64
}

func NewApp(log *infra.Logger, cat *catalog.Catalog, svc *studio.Service, maxUpload int64) *App {
	if maxUpload <= 0 {
		maxUpload = 8 << 20
	}
	return &App{Log: log, Catalog: cat, Studio: svc, MaxUploadBytes: maxUpload}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		a.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	a.json(w, code, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, studio.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrUnknownOccasion),
		errors.Is(err, studio.ErrUnknownSize),
		errors.Is(err, studio.ErrUnknownSlot),
		errors.Is(err, studio.ErrNoUpload),
		errors.Is(err, studio.ErrCompositeStyle),
		errors.Is(err, studio.ErrNotComposite):
		return http.StatusBadRequest
	case errors.Is(err, studio.ErrSlotBusy),
		errors.Is(err, studio.ErrSlotComplete):
		return http.StatusConflict
	case errors.Is(err, imaging.ErrSizeExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, vision.ErrMissingAPIKey),
		errors.Is(err, vision.ErrCredentialRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
