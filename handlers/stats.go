package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

// StatsStore provides the aggregates the dashboard is built from.
type StatsStore interface {
	CountBooks(ctx context.Context) (int64, error)
	CountPendingApprovals(ctx context.Context) (int64, error)
	DistinctUploaders(ctx context.Context) ([]string, error)
	CountByGenre(ctx context.Context) (map[string]int64, error)
	MonthlyCounts(ctx context.Context, year int, approvedOnly bool) (map[int]int64, error)
}

type StatsHandler struct {
	Store StatsStore
}

// MonthlyActivity indexes counts by calendar month, January first. Months
// with no records stay zero.
type MonthlyActivity struct {
	Uploads   [12]int64 `json:"uploads"`
	Approvals [12]int64 `json:"approvals"`
}

type StatsResponse struct {
	TotalBooks       int64            `json:"totalBooks"`
	PendingApprovals int64            `json:"pendingApprovals"`
	UniqueUploaders  int              `json:"uniqueUploaders"`
	BooksByGenre     map[string]int64 `json:"booksByGenre"`
	MonthlyActivity  MonthlyActivity  `json:"monthlyActivity"`
}

// Stats recomputes the dashboard aggregates over the full collection on
// every call. Any store fault fails the whole request; partial statistics
// are never returned.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	total, err := h.Store.CountBooks(ctx)
	if err != nil {
		h.fail(w, "count books", err)
		return
	}
	pending, err := h.Store.CountPendingApprovals(ctx)
	if err != nil {
		h.fail(w, "count pending", err)
		return
	}
	uploaders, err := h.Store.DistinctUploaders(ctx)
	if err != nil {
		h.fail(w, "distinct uploaders", err)
		return
	}
	genres, err := h.Store.CountByGenre(ctx)
	if err != nil {
		h.fail(w, "count by genre", err)
		return
	}
	if genres == nil {
		genres = map[string]int64{}
	}

	// Approvals are grouped by creation month: the record carries no
	// approval timestamp, so creation month is the closest available signal.
	year := time.Now().UTC().Year()
	uploads, err := h.Store.MonthlyCounts(ctx, year, false)
	if err != nil {
		h.fail(w, "monthly uploads", err)
		return
	}
	approvals, err := h.Store.MonthlyCounts(ctx, year, true)
	if err != nil {
		h.fail(w, "monthly approvals", err)
		return
	}

	var activity MonthlyActivity
	for month, n := range uploads {
		if month >= 1 && month <= 12 {
			activity.Uploads[month-1] = n
		}
	}
	for month, n := range approvals {
		if month >= 1 && month <= 12 {
			activity.Approvals[month-1] = n
		}
	}

	respondJSON(w, http.StatusOK, StatsResponse{
		TotalBooks:       total,
		PendingApprovals: pending,
		UniqueUploaders:  len(uploaders),
		BooksByGenre:     genres,
		MonthlyActivity:  activity,
	})
}

func (h *StatsHandler) fail(w http.ResponseWriter, op string, err error) {
	log.Printf("stats: %s: %v", op, err)
	respondError(w, http.StatusInternalServerError, "failed to compute statistics")
}
