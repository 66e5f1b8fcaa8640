// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine implements the template application engine: copying a
// template's content, excerpt, meta, and featured image onto a target
// post, with usage tracking as a best-effort side effect.
//
// The engine holds no state between calls. All collaborators — the
// template and post repositories, the usage log, the permission
// checker, and the runtime configuration — are injected at construction.
package engine

import (
	"errors"
	"log/slog"

	"templatekit/internal/models"
)

// TemplateSource is the read/duplicate surface of the template repository.
type TemplateSource interface {
	FindByID(id int64) (*models.Template, error)
	Meta(id int64) (map[string]string, error)
	IncrementUsage(id int64) error
	Duplicate(id, authorID int64) (int64, error)
}

// PostRepository is the mutation surface of the target-post repository.
type PostRepository interface {
	FindByID(id int64) (*models.Post, error)
	UpdateContent(id int64, content string, excerpt *string) error
	SetFeaturedImage(id, imageID int64) error
	SetMeta(id int64, key, value string) error
}

// UsageRecorder appends usage events to the append-only log.
type UsageRecorder interface {
	Record(templateID, postID, userID int64) (*models.UsageEvent, error)
}

// PermissionChecker is the external capability-check collaborator. The
// engine consults it but never re-implements authorization rules.
type PermissionChecker interface {
	CanEditPost(user *models.User, postID int64) bool
	CanManageTemplates(user *models.User) bool
}

// Config exposes the runtime configuration the engine consults on each
// application: the usage tracking toggle and the meta copy allow-list.
type Config interface {
	UsageTrackingEnabled() bool
	CopyableMetaKeys() []string
}

// ApplyResult carries the target post's fields after application, read
// back from the repository so the caller's editing surface can
// reconcile state without a second query.
type ApplyResult struct {
	Content         string `json:"content"`
	Excerpt         string `json:"excerpt"`
	FeaturedImageID *int64 `json:"featured_image_id,omitempty"`
}

// Engine applies templates to posts and duplicates templates.
type Engine struct {
	templates TemplateSource
	posts     PostRepository
	usage     UsageRecorder
	perms     PermissionChecker
	config    Config
}

// New creates an Engine with the given collaborators.
func New(templates TemplateSource, posts PostRepository, usage UsageRecorder, perms PermissionChecker, config Config) *Engine {
	return &Engine{
		templates: templates,
		posts:     posts,
		usage:     usage,
		perms:     perms,
		config:    config,
	}
}

// Apply copies the template onto the target post and returns the post's
// resulting fields. Validation runs in a fixed order before any
// mutation: permission, template existence, post existence, type
// compatibility. On success the content is overwritten, the excerpt is
// overwritten only when the template's excerpt is non-empty, the
// featured image is copied only when the template opts in, and
// allow-listed meta keys are copied skipping empty values.
//
// Reapplying the same template yields the same post state; the usage
// log and counter are the deliberate exception — each successful call
// appends one event and increments the counter by one.
func (e *Engine) Apply(templateID, postID int64, actor *models.User) (*ApplyResult, error) {
	if templateID <= 0 {
		return nil, newError(KindValidationFailed, "A template id is required.", nil)
	}
	if postID <= 0 {
		return nil, newError(KindValidationFailed, "A post id is required.", nil)
	}

	if actor == nil || !e.perms.CanEditPost(actor, postID) {
		return nil, newError(KindPermissionDenied, "Permission denied.", nil)
	}

	tmpl, err := e.templates.FindByID(templateID)
	if err != nil {
		return nil, dependencyFailure("find template", err)
	}
	if tmpl == nil {
		return nil, newError(KindTemplateNotFound, "Template not found.", nil)
	}

	post, err := e.posts.FindByID(postID)
	if err != nil {
		return nil, dependencyFailure("find post", err)
	}
	if post == nil {
		return nil, newError(KindPostNotFound, "Post not found.", nil)
	}

	if !tmpl.SupportsPostType(post.Type) {
		return nil, newError(KindIncompatibleType, "This template is not compatible with this post type.", nil)
	}

	// An empty template excerpt never clears the post's existing excerpt.
	var excerpt *string
	if tmpl.Excerpt != "" {
		excerpt = &tmpl.Excerpt
	}

	if err := e.posts.UpdateContent(post.ID, tmpl.Content, excerpt); err != nil {
		return nil, dependencyFailure("update post content", err)
	}

	if tmpl.AutoApplyFeaturedImage && tmpl.FeaturedImageID != nil {
		if err := e.posts.SetFeaturedImage(post.ID, *tmpl.FeaturedImageID); err != nil {
			return nil, dependencyFailure("set featured image", err)
		}
	}

	if err := e.copyMeta(tmpl.ID, post.ID); err != nil {
		return nil, err
	}

	e.trackUsage(tmpl.ID, post.ID, actor.ID)

	// Re-fetch so the result reflects any side effects the repository
	// applied on write (sanitization, timestamps).
	updated, err := e.posts.FindByID(post.ID)
	if err != nil {
		return nil, dependencyFailure("reload post", err)
	}
	if updated == nil {
		return nil, dependencyFailure("reload post", errors.New("post missing after update"))
	}

	return &ApplyResult{
		Content:         updated.Content,
		Excerpt:         updated.Excerpt,
		FeaturedImageID: updated.FeaturedImageID,
	}, nil
}

// copyMeta copies the configured allow-list of meta keys from template
// to post, skipping keys with empty values.
func (e *Engine) copyMeta(templateID, postID int64) error {
	keys := e.config.CopyableMetaKeys()
	if len(keys) == 0 {
		return nil
	}

	meta, err := e.templates.Meta(templateID)
	if err != nil {
		return dependencyFailure("read template meta", err)
	}

	for _, key := range keys {
		value, ok := meta[key]
		if !ok || value == "" {
			continue
		}
		if err := e.posts.SetMeta(postID, key, value); err != nil {
			return dependencyFailure("copy template meta", err)
		}
	}
	return nil
}

// trackUsage appends a usage event and bumps the template's cached
// counter. Both are fire-and-forget: a failure degrades to a warning
// and never fails the already-applied content change. The counter and
// the log are eventually consistent, not transactionally coupled.
func (e *Engine) trackUsage(templateID, postID, userID int64) {
	if !e.config.UsageTrackingEnabled() {
		return
	}

	if _, err := e.usage.Record(templateID, postID, userID); err != nil {
		slog.Warn("usage event not recorded",
			"template_id", templateID, "post_id", postID, "error", err)
	}
	if err := e.templates.IncrementUsage(templateID); err != nil {
		slog.Warn("usage counter not incremented",
			"template_id", templateID, "error", err)
	}
}

// Duplicate copies a template into a new draft. It requires template
// management privilege, which is stricter than the edit-post permission
// Apply checks. Returns the new template's ID.
func (e *Engine) Duplicate(templateID int64, actor *models.User) (int64, error) {
	if templateID <= 0 {
		return 0, newError(KindValidationFailed, "A template id is required.", nil)
	}

	if actor == nil || !e.perms.CanManageTemplates(actor) {
		return 0, newError(KindPermissionDenied, "You do not have permission to duplicate templates.", nil)
	}

	tmpl, err := e.templates.FindByID(templateID)
	if err != nil {
		return 0, dependencyFailure("find template", err)
	}
	if tmpl == nil {
		return 0, newError(KindTemplateNotFound, "Template not found.", nil)
	}

	newID, err := e.templates.Duplicate(tmpl.ID, actor.ID)
	if err != nil {
		return 0, dependencyFailure("duplicate template", err)
	}
	return newID, nil
}
