package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"pharmtrack/internal/apperr"
	"pharmtrack/internal/catalog"
	"pharmtrack/internal/sales"
	"pharmtrack/web"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	catalog *catalog.Service
	sales   *sales.Service
}

// New constructs a Handler over the shared store.
func New(db *sqlx.DB) *Handler {
	return &Handler{
		catalog: catalog.New(db),
		sales:   sales.New(db),
	}
}

// Router wires up the HTTP API and the page shell.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(requestLogger)
	r.Use(recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Resource not found")
	})

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/medicines", h.listMedicines)
		r.Post("/medicines", h.createMedicine)
		r.Put("/medicines/{id}", h.updateMedicine)
		r.Delete("/medicines/{id}", h.deleteMedicine)

		r.Get("/sales", h.listSales)
		r.Post("/sales", h.recordSale)

		r.Get("/dashboard", h.dashboard)
	})

	registerPages(r)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Medicine handlers

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.catalog.List(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Bad request")
		return
	}
	medicine, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message":  "Medicine added successfully",
		"id":       medicine.ID,
		"medicine": medicine,
	})
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in catalog.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Bad request")
		return
	}
	medicine, err := h.catalog.Update(r.Context(), id, in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":  "Medicine updated successfully",
		"medicine": medicine,
	})
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Medicine deleted successfully",
	})
}

// Sale handlers

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.sales.List(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var in sales.RecordInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Bad request")
		return
	}
	receipt, err := h.sales.Record(r.Context(), in)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message":         "Sale recorded successfully",
		"sale":            receipt.Sale,
		"remaining_stock": receipt.RemainingStock,
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sales.Dashboard(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Helpers

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondAppError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		respondError(w, statusFor(ae.Kind), ae.Message)
		return
	}
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation, apperr.Conflict:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Page shell

func registerPages(r chi.Router) {
	pages := map[string]string{
		"/":          "index.html",
		"/medicines": "medicines.html",
		"/sales":     "sales.html",
		"/inventory": "inventory.html",
	}
	for route, file := range pages {
		r.Get(route, servePage(file))
	}
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.FS(mustSub(web.Static, "static")))))
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

func servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := web.Static.ReadFile("static/" + name)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}
