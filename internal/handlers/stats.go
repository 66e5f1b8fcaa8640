// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"templatekit/internal/models"
	"templatekit/internal/store"
)

// Limits for the stats dashboard panels.
const (
	mostUsedLimit    = 10
	recentStatsLimit = 20
)

// Stats groups the usage statistics handlers. Counts come from the
// append-only usage log, not the per-template display counters, so the
// dashboard stays correct even if a counter update was lost.
type Stats struct {
	templates *store.TemplateStore
	usage     *store.UsageStore
}

// NewStats creates a new Stats handler group.
func NewStats(templates *store.TemplateStore, usage *store.UsageStore) *Stats {
	return &Stats{templates: templates, usage: usage}
}

// Summary returns the headline numbers: published template count, total
// applications, and the average per template.
func (h *Stats) Summary(w http.ResponseWriter, r *http.Request) {
	totalTemplates, err := h.templates.CountPublished()
	if err != nil {
		respondError(w, err)
		return
	}

	totalUsage, err := h.usage.Total()
	if err != nil {
		respondError(w, err)
		return
	}

	summary := models.UsageSummary{
		TotalTemplates: totalTemplates,
		TotalUsage:     totalUsage,
	}
	if totalTemplates > 0 {
		summary.AverageUsage = float64(totalUsage) / float64(totalTemplates)
	}

	respondJSON(w, http.StatusOK, summary)
}

// MostUsed returns the top templates by application count.
func (h *Stats) MostUsed(w http.ResponseWriter, r *http.Request) {
	counts, err := h.usage.MostUsed(mostUsedLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"most_used": counts})
}

// Recent returns the latest applications across all templates.
func (h *Stats) Recent(w http.ResponseWriter, r *http.Request) {
	records, err := h.usage.Recent(recentStatsLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"recent": records})
}
