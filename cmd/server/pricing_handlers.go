package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/govsure/costroll/internal/export"
	"github.com/govsure/costroll/internal/lineitem"
	"github.com/govsure/costroll/internal/pricing"
	"github.com/govsure/costroll/internal/store"
)

type pricingResponse struct {
	ID        int64            `json:"id,omitempty"`
	Model     pricing.Model    `json:"model"`
	Analysis  pricing.Analysis `json:"analysis"`
	CreatedAt string           `json:"createdAt,omitempty"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
}

type itemAddRequest struct {
	Category string `json:"category"`
}

type itemEditRequest struct {
	Category string         `json:"category"`
	Field    lineitem.Field `json:"field"`
	Value    string         `json:"value"`
}

type itemResponse struct {
	ItemID string `json:"itemId"`
	pricingResponse
}

func (s *server) handlePricingCalculate(w http.ResponseWriter, r *http.Request) {
	var m pricing.Model
	if !decodeBody(w, r, &m) {
		return
	}
	m.Items = m.Items.Normalize()
	if writeValidation(w, validatePricingModel(&m, false)) {
		return
	}

	writeJSON(w, http.StatusOK, pricingResponse{Model: m, Analysis: pricing.Calculate(m)})
}

func (s *server) handlePricingList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	models, err := s.store.ListPricingModels(r.Context(), query)
	if err != nil {
		s.fail(w, r, "load pricing models", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "pricingModels": models})
}

func (s *server) handlePricingCreate(w http.ResponseWriter, r *http.Request) {
	var m pricing.Model
	if !decodeBody(w, r, &m) {
		return
	}
	m.Title = strings.TrimSpace(m.Title)
	m.Items = m.Items.Normalize()
	if writeValidation(w, validatePricingModel(&m, true)) {
		return
	}

	id, err := s.store.CreatePricingModel(r.Context(), m)
	if err != nil {
		s.fail(w, r, "create pricing model", err)
		return
	}
	s.logger.Info("pricing model created", zap.Int64("id", id), zap.String("title", m.Title))

	s.writePricingRecord(w, r, http.StatusCreated, id)
}

func (s *server) handlePricingGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.writePricingRecord(w, r, http.StatusOK, id)
}

func (s *server) handlePricingUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var m pricing.Model
	if !decodeBody(w, r, &m) {
		return
	}
	m.Title = strings.TrimSpace(m.Title)
	m.Items = m.Items.Normalize()
	if writeValidation(w, validatePricingModel(&m, true)) {
		return
	}

	if err := s.store.UpdatePricingModel(r.Context(), id, m); err != nil {
		s.fail(w, r, "update pricing model", err)
		return
	}
	s.writePricingRecord(w, r, http.StatusOK, id)
}

func (s *server) handlePricingDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeletePricingModel(r.Context(), id); err != nil {
		s.fail(w, r, "delete pricing model", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handlePricingExport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.store.GetPricingModel(r.Context(), id)
	if err != nil {
		s.fail(w, r, "load pricing model", err)
		return
	}

	data, err := export.PricingWorkbook(rec.Model, pricing.Calculate(rec.Model))
	if err != nil {
		s.fail(w, r, "export pricing model", err)
		return
	}
	writeXLSX(w, fmt.Sprintf("pricing-%d.xlsx", id), data)
}

func (s *server) handlePricingItemAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req itemAddRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category := lineitem.Labor
	if strings.TrimSpace(req.Category) != "" {
		category = lineitem.ParseCategory(req.Category)
	}

	var itemID string
	s.editPricingItems(w, r, id, http.StatusCreated, func(items lineitem.Store) lineitem.Store {
		items, itemID = items.Add(category)
		return items
	}, &itemID)
}

func (s *server) handlePricingItemUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req itemEditRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if writeValidation(w, validateItemEdit(&req)) {
		return
	}

	itemID := chi.URLParam(r, "itemID")
	category := lineitem.ParseCategory(req.Category)
	s.editPricingItems(w, r, id, http.StatusOK, func(items lineitem.Store) lineitem.Store {
		return items.Update(category, itemID, req.Field, req.Value)
	}, &itemID)
}

func (s *server) handlePricingItemRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "itemID")
	category := lineitem.Labor
	if raw := r.URL.Query().Get("category"); raw != "" {
		category = lineitem.ParseCategory(raw)
	}
	s.editPricingItems(w, r, id, http.StatusOK, func(items lineitem.Store) lineitem.Store {
		return items.Remove(category, itemID)
	}, &itemID)
}

// editPricingItems applies edit to the stored model's line items and saves the result.
// Edits on unknown items are no-ops and still answer with the current model.
// A result that fails item validation is rejected and nothing is saved.
func (s *server) editPricingItems(w http.ResponseWriter, r *http.Request, id int64, status int, edit func(lineitem.Store) lineitem.Store, itemID *string) {
	rec, err := s.store.GetPricingModel(r.Context(), id)
	if err != nil {
		s.fail(w, r, "load pricing model", err)
		return
	}

	rec.Model.Items = edit(rec.Model.Items)
	if writeValidation(w, validateItems(rec.Model.Items).Filter()) {
		return
	}
	if err := s.store.UpdatePricingModel(r.Context(), id, rec.Model); err != nil {
		s.fail(w, r, "update pricing model", err)
		return
	}

	rec, err = s.store.GetPricingModel(r.Context(), id)
	if err != nil {
		s.fail(w, r, "load pricing model", err)
		return
	}
	writeJSON(w, status, itemResponse{ItemID: *itemID, pricingResponse: newPricingResponse(rec)})
}

func (s *server) writePricingRecord(w http.ResponseWriter, r *http.Request, status int, id int64) {
	rec, err := s.store.GetPricingModel(r.Context(), id)
	if err != nil {
		s.fail(w, r, "load pricing model", err)
		return
	}
	writeJSON(w, status, newPricingResponse(rec))
}

func newPricingResponse(rec store.PricingRecord) pricingResponse {
	return pricingResponse{
		ID:        rec.ID,
		Model:     rec.Model,
		Analysis:  pricing.Calculate(rec.Model),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (s *server) handleRateProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListRateProfiles(r.Context())
	if err != nil {
		s.fail(w, r, "load rate profiles", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rateProfiles": profiles})
}
