package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/govsure/costroll/internal/budget"
	"github.com/govsure/costroll/internal/export"
)

type budgetResponse struct {
	Budget    budget.Budget  `json:"budget"`
	Summary   budget.Summary `json:"summary"`
	CreatedAt string         `json:"createdAt,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

func (s *server) handleBudgetCalculate(w http.ResponseWriter, r *http.Request) {
	var b budget.Budget
	if !decodeBody(w, r, &b) {
		return
	}
	b.Items = b.Items.Normalize()
	if b.GrantID == "" {
		b.GrantID = "draft"
	}
	if writeValidation(w, validateBudget(&b)) {
		return
	}

	writeJSON(w, http.StatusOK, budgetResponse{Budget: b, Summary: budget.Calculate(b)})
}

func (s *server) handleBudgetGet(w http.ResponseWriter, r *http.Request) {
	s.writeBudget(w, r, http.StatusOK, grantParam(r))
}

func (s *server) handleBudgetSave(w http.ResponseWriter, r *http.Request) {
	grantID := grantParam(r)

	var b budget.Budget
	if !decodeBody(w, r, &b) {
		return
	}
	b.GrantID = grantID
	b.Items = b.Items.Normalize()
	if writeValidation(w, validateBudget(&b)) {
		return
	}

	if err := s.store.SaveBudget(r.Context(), b); err != nil {
		s.fail(w, r, "save budget", err)
		return
	}
	s.logger.Info("budget saved", zap.String("grant_id", grantID))

	s.writeBudget(w, r, http.StatusOK, grantID)
}

func (s *server) handleBudgetExport(w http.ResponseWriter, r *http.Request) {
	grantID := grantParam(r)
	rec, err := s.store.GetBudget(r.Context(), grantID)
	if err != nil {
		s.fail(w, r, "load budget", err)
		return
	}

	data, err := export.BudgetWorkbook(rec.Budget, budget.Calculate(rec.Budget))
	if err != nil {
		s.fail(w, r, "export budget", err)
		return
	}
	writeXLSX(w, "sf424a-"+grantID+".xlsx", data)
}

func (s *server) writeBudget(w http.ResponseWriter, r *http.Request, status int, grantID string) {
	rec, err := s.store.GetBudget(r.Context(), grantID)
	if err != nil {
		s.fail(w, r, "load budget", err)
		return
	}
	writeJSON(w, status, budgetResponse{
		Budget:    rec.Budget,
		Summary:   budget.Calculate(rec.Budget),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	})
}

// grantParam is the grant id from the URL with surrounding spaces removed.
func grantParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "grantID"))
}
