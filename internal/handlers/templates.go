// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"templatekit/internal/cache"
	"templatekit/internal/engine"
	"templatekit/internal/markdown"
	"templatekit/internal/middleware"
	"templatekit/internal/models"
	"templatekit/internal/session"
	"templatekit/internal/store"
	"templatekit/internal/surface"
)

// recentUsageLimit is how many usage rows the per-template panel shows.
const recentUsageLimit = 5

// Templates groups the template catalog and application handlers.
type Templates struct {
	templates *store.TemplateStore
	usage     *store.UsageStore
	engine    *engine.Engine
	catalog   *cache.Catalog
}

// NewTemplates creates a new Templates handler group.
func NewTemplates(templates *store.TemplateStore, usage *store.UsageStore, eng *engine.Engine, catalog *cache.Catalog) *Templates {
	return &Templates{
		templates: templates,
		usage:     usage,
		engine:    eng,
		catalog:   catalog,
	}
}

// actorFromCtx rebuilds the acting user from the session payload. The
// session carries everything the permission checker needs, so no user
// lookup happens per request.
func actorFromCtx(r *http.Request) *models.User {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return nil
	}
	return sessionUser(sess)
}

func sessionUser(sess *session.Data) *models.User {
	return &models.User{
		ID:          sess.UserID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		Role:        models.Role(sess.Role),
	}
}

// List returns published template summaries, optionally filtered by
// post type and category. Responses are served from the catalog cache
// when possible.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	postType := strings.TrimSpace(r.URL.Query().Get("post_type"))

	// "all" and an absent filter mean the same thing.
	var categoryID int64
	if raw := r.URL.Query().Get("category"); raw != "" && raw != "all" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondValidation(w, "The category filter must be a positive id or \"all\".")
			return
		}
		categoryID = id
	}

	key := cache.ListKey(postType, categoryID)
	if payload, ok := h.catalog.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	summaries, err := h.templates.List(postType, categoryID)
	if err != nil {
		respondError(w, err)
		return
	}

	payload, err := json.Marshal(map[string]any{"templates": summaries})
	if err != nil {
		respondError(w, err)
		return
	}
	h.catalog.Set(r.Context(), key, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Search returns templates matching the query, ranked by relevance.
// Blank queries return an empty list rather than the whole catalog.
func (h *Templates) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	postType := strings.TrimSpace(r.URL.Query().Get("post_type"))

	if term == "" {
		respondJSON(w, http.StatusOK, map[string]any{"templates": []models.TemplateSummary{}})
		return
	}

	summaries, err := h.templates.Search(term, postType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"templates": summaries})
}

// templateDetail is the full single-template payload, including the
// rendered preview and the parsed block list for block editors.
type templateDetail struct {
	*models.Template
	RenderedContent string            `json:"rendered_content"`
	Blocks          []surface.Block   `json:"blocks"`
	Meta            map[string]string `json:"meta"`
}

// Get returns one template with rendered content and meta.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		respondValidation(w, "A template id is required.")
		return
	}

	tmpl, err := h.templates.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if tmpl == nil {
		respondNotFound(w, string(engine.KindTemplateNotFound), "Template not found.")
		return
	}

	rendered, err := markdown.ToHTML(tmpl.Content)
	if err != nil {
		slog.Warn("template render failed", "template_id", id, "error", err)
		rendered = tmpl.Content
	}

	meta, err := h.templates.Meta(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, templateDetail{
		Template:        tmpl,
		RenderedContent: rendered,
		Blocks:          surface.DefaultCodec.Parse(tmpl.Content),
		Meta:            meta,
	})
}

type applyRequest struct {
	PostID int64  `json:"post_id"`
	Editor string `json:"editor"`
}

type applyResponse struct {
	*engine.ApplyResult
	Blocks []surface.Block `json:"blocks,omitempty"`
}

// Apply copies the template onto the target post. The optional editor
// field selects the content surface of the response; block editors get
// the applied content back pre-parsed.
func (h *Templates) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "A JSON body with post_id is required.")
		return
	}

	kind := surface.KindRichText
	if req.Editor != "" {
		kind = surface.Kind(req.Editor)
		if _, err := surface.New(kind, ""); err != nil {
			respondValidation(w, "Unknown editor kind.")
			return
		}
	}

	result, err := h.engine.Apply(idParam(r), req.PostID, actorFromCtx(r))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := applyResponse{ApplyResult: result}
	if kind == surface.KindBlocks {
		s := surface.NewBlocks(result.Content, surface.DefaultCodec)
		resp.Blocks = s.List()
	}

	respondJSON(w, http.StatusOK, resp)
}

// Duplicate clones the template into a new draft and returns its id.
func (h *Templates) Duplicate(w http.ResponseWriter, r *http.Request) {
	newID, err := h.engine.Duplicate(idParam(r), actorFromCtx(r))
	if err != nil {
		respondError(w, err)
		return
	}

	h.catalog.InvalidateAll(r.Context())
	respondJSON(w, http.StatusCreated, map[string]int64{"id": newID})
}

// Usage returns the most recent applications of one template.
func (h *Templates) Usage(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		respondValidation(w, "A template id is required.")
		return
	}

	records, err := h.usage.RecentForTemplate(id, recentUsageLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"usage": records})
}

type templateRequest struct {
	Title                  string   `json:"title"`
	Content                string   `json:"content"`
	Excerpt                string   `json:"excerpt"`
	Description            string   `json:"description"`
	Status                 string   `json:"status"`
	TargetPostTypes        []string `json:"target_post_types"`
	AutoApplyFeaturedImage bool     `json:"auto_apply_featured_image"`
	FeaturedImageID        *int64   `json:"featured_image_id"`
	ThumbnailURL           string   `json:"thumbnail_url"`
	SortOrder              int      `json:"sort_order"`
	CategoryIDs            []int64  `json:"category_ids"`
}

func (req *templateRequest) toModel(authorID int64) *models.Template {
	status := models.TemplateStatus(req.Status)
	if req.Status == "" {
		status = models.TemplateStatusDraft
	}
	return &models.Template{
		Title:                  strings.TrimSpace(req.Title),
		Content:                req.Content,
		Excerpt:                req.Excerpt,
		Description:            req.Description,
		Status:                 status,
		TargetPostTypes:        req.TargetPostTypes,
		AutoApplyFeaturedImage: req.AutoApplyFeaturedImage,
		FeaturedImageID:        req.FeaturedImageID,
		ThumbnailURL:           req.ThumbnailURL,
		SortOrder:              req.SortOrder,
		AuthorID:               authorID,
	}
}

// Create inserts a new template. Admin only, enforced by the router.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "A JSON template body is required.")
		return
	}
	if msg := validateTemplate(&req); msg != "" {
		respondValidation(w, msg)
		return
	}

	actor := actorFromCtx(r)
	created, err := h.templates.Create(req.toModel(actor.ID))
	if err != nil {
		respondError(w, err)
		return
	}

	if len(req.CategoryIDs) > 0 {
		if err := h.templates.SetCategories(created.ID, req.CategoryIDs); err != nil {
			respondError(w, err)
			return
		}
	}

	h.catalog.InvalidateAll(r.Context())
	respondJSON(w, http.StatusCreated, created)
}

// Update replaces a template's fields and category assignments.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		respondValidation(w, "A template id is required.")
		return
	}

	existing, err := h.templates.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if existing == nil {
		respondNotFound(w, string(engine.KindTemplateNotFound), "Template not found.")
		return
	}

	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "A JSON template body is required.")
		return
	}
	if msg := validateTemplate(&req); msg != "" {
		respondValidation(w, msg)
		return
	}

	tmpl := req.toModel(existing.AuthorID)
	tmpl.ID = id
	if err := h.templates.Update(tmpl); err != nil {
		respondError(w, err)
		return
	}
	if err := h.templates.SetCategories(id, req.CategoryIDs); err != nil {
		respondError(w, err)
		return
	}

	h.catalog.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Delete removes a template. Usage history survives via the append-only
// log's nullable reference.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if id == 0 {
		respondValidation(w, "A template id is required.")
		return
	}

	if err := h.templates.Delete(id); err != nil {
		respondError(w, err)
		return
	}

	h.catalog.InvalidateAll(r.Context())
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
