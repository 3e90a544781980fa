package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/middleware"
)

type createSessionPayload struct {
	Occasion string `json:"occasion"`
}

func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	var p createSessionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	view, err := a.Studio.Create(p.Occasion)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, view)
}

func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	view, err := a.Studio.Get(id)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

type selectPayload struct {
	Size  string `json:"size"`
	Style string `json:"style"`
}

// SelectOptions switches the session's size and style. A style that is not
// sold at the new size falls back to the first style that is.
func (a *App) SelectOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	var p selectPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	view, err := a.Studio.Select(id, p.Size, p.Style)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

type uploadPayload struct {
	// Image is a data URL (data:image/jpeg;base64,...) or bare base64.
	Image string `json:"image"`
	MIME  string `json:"mime"`
}

func (a *App) UploadSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	slotID, ok := a.slotID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	var p uploadPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	data, mime, err := decodeImagePayload(p.Image, p.MIME)
	if err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	view, err := a.Studio.Upload(id, slotID, data, mime)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

func (a *App) GenerateSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	slotID, ok := a.slotID(w, r)
	if !ok {
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	view, err := a.Studio.GenerateSlot(r.Context(), id, slotID, locale)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

func (a *App) GenerateCombined(w http.ResponseWriter, r *http.Request) {
	id, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	view, err := a.Studio.GenerateCombined(r.Context(), id, locale)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

// ReloadSlot clears a finished or failed result so the slot can be
// regenerated; the uploaded photo is kept.
func (a *App) ReloadSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	slotID, ok := a.slotID(w, r)
	if !ok {
		return
	}
	view, err := a.Studio.Reload(id, slotID)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

func (a *App) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

func (a *App) slotID(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "invalid slot id"})
		return 0, false
	}
	return n, true
}

func decodeImagePayload(image, mime string) ([]byte, string, error) {
	if image == "" {
		return nil, "", errors.New("image is required")
	}
	if strings.HasPrefix(image, "data:") {
		meta, payload, found := strings.Cut(strings.TrimPrefix(image, "data:"), ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("image must be a base64 data URL")
		}
		mime = strings.TrimSuffix(meta, ";base64")
		image = payload
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return data, mime, nil
}
