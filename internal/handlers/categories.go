// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"templatekit/internal/cache"
	"templatekit/internal/models"
	"templatekit/internal/slug"
	"templatekit/internal/store"
)

// Default presentation for categories created without icon or color.
const (
	defaultCategoryIcon  = "post"
	defaultCategoryColor = "#0073aa"
)

// Categories groups the category taxonomy handlers. All routes are
// admin only, enforced by the router.
type Categories struct {
	categories *store.CategoryStore
	catalog    *cache.Catalog
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore, catalog *cache.Catalog) *Categories {
	return &Categories{categories: categories, catalog: catalog}
}

// List returns all categories with their template counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// Get returns one category.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		respondValidation(w, "A category id is required.")
		return
	}

	cat, err := h.categories.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if cat == nil {
		respondNotFound(w, "not_found", "Category not found.")
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// Create inserts a new category. A missing slug is derived from the
// name and de-duplicated against existing slugs.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "A JSON category body is required.")
		return
	}
	if msg := validateCategory(&req); msg != "" {
		respondValidation(w, msg)
		return
	}

	s := strings.TrimSpace(req.Slug)
	if s == "" {
		s = slug.Generate(req.Name)
	}
	s, err := slug.Unique(s, func(candidate string) (bool, error) {
		existing, err := h.categories.FindBySlug(candidate)
		return existing != nil, err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	cat := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        s,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	}
	if cat.Icon == "" {
		cat.Icon = defaultCategoryIcon
	}
	if cat.Color == "" {
		cat.Color = defaultCategoryColor
	}

	created, err := h.categories.Create(cat)
	if err != nil {
		respondError(w, err)
		return
	}

	h.catalog.InvalidateAll(r.Context())
	respondJSON(w, http.StatusCreated, created)
}

// Update replaces a category's fields. The slug is kept unless the
// request supplies a new one; links keep working across renames.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		respondValidation(w, "A category id is required.")
		return
	}

	existing, err := h.categories.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if existing == nil {
		respondNotFound(w, "not_found", "Category not found.")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "A JSON category body is required.")
		return
	}
	if msg := validateCategory(&req); msg != "" {
		respondValidation(w, msg)
		return
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = req.Description
	if req.Slug != "" {
		existing.Slug = req.Slug
	}
	if req.Icon != "" {
		existing.Icon = req.Icon
	}
	if req.Color != "" {
		existing.Color = req.Color
	}

	if err := h.categories.Update(existing); err != nil {
		respondError(w, err)
		return
	}

	h.catalog.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, existing)
}

// Delete removes a category. Template assignments cascade; templates
// themselves are untouched.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		respondValidation(w, "A category id is required.")
		return
	}

	if err := h.categories.Delete(id); err != nil {
		respondError(w, err)
		return
	}

	h.catalog.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Icons returns the curated icon set the admin UI offers.
func (h *Categories) Icons(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"icons": models.CategoryIcons})
}
