package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"templatekit/internal/models"
)

// Validation limits for template and category fields.
const (
	maxTitleLen       = 300
	maxContentLen     = 500_000
	maxExcerptLen     = 1_000
	maxDescriptionLen = 1_000
	maxNameLen        = 200
	maxSlugLen        = 200
)

// hexColor matches a #rrggbb hex triplet, the only color form accepted.
var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// validateTemplate checks template inputs and returns the first error found.
func validateTemplate(req *templateRequest) string {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(req.Content) > maxContentLen {
		return "Content is too long (max 500,000 characters)."
	}
	if utf8.RuneCountInString(req.Excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	if req.Status != "" &&
		req.Status != string(models.TemplateStatusDraft) &&
		req.Status != string(models.TemplateStatusPublished) {
		return "Status must be draft or published."
	}
	for _, pt := range req.TargetPostTypes {
		if strings.TrimSpace(pt) == "" {
			return "Target post types must not contain blank entries."
		}
	}
	if req.FeaturedImageID != nil && *req.FeaturedImageID <= 0 {
		return "Featured image id must be a positive integer."
	}
	if req.SortOrder < 0 {
		return "Sort order must not be negative."
	}
	return ""
}

// validateCategory checks category inputs and returns the first error found.
func validateCategory(req *categoryRequest) string {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(req.Slug) > maxSlugLen {
		return "Slug is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	if req.Icon != "" && !models.ValidCategoryIcon(req.Icon) {
		return "Unknown category icon."
	}
	if req.Color != "" && !hexColor.MatchString(req.Color) {
		return "Color must be a #rrggbb hex value."
	}
	return ""
}
