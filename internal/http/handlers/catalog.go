package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/catalog"
	"server/internal/studio"
)

func (a *App) ListOccasions(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"occasions": a.Catalog.Occasions(),
		"sizes":     catalog.Sizes,
	})
}

func (a *App) GetOccasion(w http.ResponseWriter, r *http.Request) {
	occ, ok := a.Catalog.Occasion(chi.URLParam(r, "occasion"))
	if !ok {
		a.error(w, r, studio.ErrUnknownOccasion)
		return
	}
	a.json(w, http.StatusOK, occ)
}
