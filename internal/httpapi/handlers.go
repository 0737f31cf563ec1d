package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/charts"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/ledger"
	"github.com/anish-3041/Personal-Finance-Dashboard/internal/service"
)

const maxBodySize = 1 << 20 // 1 MiB, snapshots included

// transactionRequest is the write shape for transactions. Amount is a
// decimal string ("12.34"); the date is YYYY-MM-DD.
type transactionRequest struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

type goalRequest struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Date   string `json:"date"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDeclined):
		status = http.StatusConflict
	case isValidationError(err):
		status = http.StatusBadRequest
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidType,
		core.ErrInvalidAmount,
		core.ErrNegativeAmount,
		core.ErrEmptyName,
		core.ErrUnknownCategory,
		core.ErrDateOutOfRange,
		core.ErrInvalidTarget,
		ledger.ErrInvalidBudget,
		ledger.ErrInvalidSnapshot,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (s *Server) parseTransaction(w http.ResponseWriter, r *http.Request) (core.Transaction, bool) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return core.Transaction{}, false
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return core.Transaction{}, false
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
		return core.Transaction{}, false
	}

	return core.Transaction{
		Type:     core.TransactionType(req.Type),
		Name:     req.Name,
		Amount:   amount,
		Category: req.Category,
		Date:     date,
	}, true
}

func parsePeriod(w http.ResponseWriter, r *http.Request) (core.Period, bool) {
	p := core.Period(r.URL.Query().Get("period"))
	if p == "" {
		p = core.PeriodAll
	}
	if !p.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid period, expected all, week or month"})
		return "", false
	}
	return p, true
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}
	txs, err := s.svc.Transactions(r.Context(), userID(r), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.parseTransaction(w, r)
	if !ok {
		return
	}
	stored, err := s.svc.AddTransaction(r.Context(), userID(r), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := s.parseTransaction(w, r)
	if !ok {
		return
	}
	stored, err := s.svc.UpdateTransaction(r.Context(), userID(r), r.PathValue("id"), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTransaction(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.svc.BudgetStatuses(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if statuses == nil {
		statuses = []core.BudgetStatus{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.SetBudget(r.Context(), userID(r), r.PathValue("category"), amount); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteBudget(r.Context(), userID(r), r.PathValue("category")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Goals(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	target, err := core.ParseAmount(req.Target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	stored, err := s.svc.AddGoal(r.Context(), userID(r), core.Goal{
		Name:   req.Name,
		Target: target,
		Date:   date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleSetGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// Progress may be negative, so ParseAmount's non-negative rule does
	// not apply here.
	var current core.Money
	negative := false
	raw := req.Amount
	if len(raw) > 0 && raw[0] == '-' {
		negative = true
		raw = raw[1:]
	}
	current, err := core.ParseAmount(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if negative {
		current.Cents = -current.Cents
	}

	stored, err := s.svc.SetGoalProgress(r.Context(), userID(r), r.PathValue("id"), current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteGoal(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDoughnutChart(w http.ResponseWriter, r *http.Request) {
	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}
	data, err := s.svc.DoughnutChart(r.Context(), userID(r), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeChart(w, r, data, s.renderer.RenderDoughnut)
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}
	data, err := s.svc.BarChart(r.Context(), userID(r), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeChart(w, r, data, s.renderer.RenderBar)
}

func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.TrendChart(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeChart(w, r, data, s.renderer.RenderTrend)
}

// writeChart answers with the chart data as JSON, or as a rendered PNG
// when the request asks for format=png.
func (s *Server) writeChart(w http.ResponseWriter, r *http.Request, data core.ChartData, render func(core.ChartData) ([]byte, error)) {
	if r.URL.Query().Get("format") != "png" {
		writeJSON(w, http.StatusOK, data)
		return
	}

	png, err := render(data)
	if errors.Is(err, charts.ErrNoData) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data to render"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.Export(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="finance-data.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.svc.Import(r.Context(), userID(r), body); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.svc.Theme(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if theme == "" {
		theme = "light"
	}
	writeJSON(w, http.StatusOK, themeRequest{Theme: theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "theme must be light or dark"})
		return
	}
	if err := s.svc.SetTheme(r.Context(), userID(r), req.Theme); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
