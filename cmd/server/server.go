package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/govsure/costroll/internal/logging"
	"github.com/govsure/costroll/internal/store"
)

const maxBodyBytes = 1 << 20

type server struct {
	store  *store.Store
	logger *zap.Logger
}

func newServer(st *store.Store, logger *zap.Logger) *server {
	return &server{store: st, logger: logger}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Requests(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/pricing/calculate", s.handlePricingCalculate)
		r.Post("/budgets/calculate", s.handleBudgetCalculate)
		r.Get("/rate-profiles", s.handleRateProfiles)

		r.Route("/pricing-models", func(r chi.Router) {
			r.Get("/", s.handlePricingList)
			r.Post("/", s.handlePricingCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handlePricingGet)
				r.Put("/", s.handlePricingUpdate)
				r.Delete("/", s.handlePricingDelete)
				r.Get("/export", s.handlePricingExport)
				r.Post("/items", s.handlePricingItemAdd)
				r.Patch("/items/{itemID}", s.handlePricingItemUpdate)
				r.Delete("/items/{itemID}", s.handlePricingItemRemove)
			})
		})

		r.Route("/grants/{grantID}/budget", func(r chi.Router) {
			r.Get("/", s.handleBudgetGet)
			r.Put("/", s.handleBudgetSave)
			r.Get("/export", s.handleBudgetExport)
		})
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps store errors onto responses and logs anything unexpected.
func (s *server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.logger.Error(op,
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, "failed to "+op)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid pricing model id")
		return 0, false
	}
	return id, true
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func writeXLSX(w http.ResponseWriter, filename string, data []byte) {
	filename = unsafeFilenameChars.ReplaceAllString(filename, "_")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
