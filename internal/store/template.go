// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"templatekit/internal/models"
)

// searchLimit bounds search results; the selector UI shows at most one page.
const searchLimit = 20

// TemplateStore handles all template-related database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, title, content, excerpt, description, status,
	target_post_types, auto_apply_featured_image, featured_image_id,
	thumbnail_url, sort_order, usage_count, last_used_at, author_id,
	created_at, updated_at`

// scanTemplate scans a row into a Template struct. target_post_types is
// stored as a JSONB array of type names.
func scanTemplate(scanner interface{ Scan(...any) error }) (*models.Template, error) {
	var t models.Template
	var types []byte
	err := scanner.Scan(
		&t.ID, &t.Title, &t.Content, &t.Excerpt, &t.Description, &t.Status,
		&types, &t.AutoApplyFeaturedImage, &t.FeaturedImageID,
		&t.ThumbnailURL, &t.SortOrder, &t.UsageCount, &t.LastUsedAt,
		&t.AuthorID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(types, &t.TargetPostTypes); err != nil {
		return nil, fmt.Errorf("decode target post types: %w", err)
	}
	return &t, nil
}

// encodePostTypes marshals the target post type set for storage,
// defaulting to ["post"] when unset.
func encodePostTypes(types []string) ([]byte, error) {
	if len(types) == 0 {
		types = []string{"post"}
	}
	return json.Marshal(types)
}

// List returns published templates ordered by manual sort order then
// title. A non-empty postType restricts results to templates targeting
// that type; a non-zero categoryID restricts to that category. An empty
// result is returned as an empty slice, not an error.
func (s *TemplateStore) List(postType string, categoryID int64) ([]models.TemplateSummary, error) {
	query := `
		SELECT t.id, t.title, t.description, t.thumbnail_url, t.excerpt, t.updated_at
		FROM templates t
		WHERE t.status = 'published'`
	args := []any{}

	if postType != "" {
		args = append(args, postType)
		query += fmt.Sprintf(`
		AND jsonb_exists(t.target_post_types, $%d)`, len(args))
	}
	if categoryID > 0 {
		args = append(args, categoryID)
		query += fmt.Sprintf(`
		AND EXISTS (
			SELECT 1 FROM template_category_assignments a
			WHERE a.template_id = t.id AND a.category_id = $%d
		)`, len(args))
	}
	// Trailing id keeps the order stable when sort_order and title tie.
	query += `
		ORDER BY t.sort_order, t.title, t.id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	summaries, err := collectSummaries(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Search returns up to 20 published templates matching the search term,
// ranked by full-text relevance over title and content. A non-empty
// postType restricts results to templates targeting that type.
func (s *TemplateStore) Search(term, postType string) ([]models.TemplateSummary, error) {
	query := `
		SELECT t.id, t.title, t.description, t.thumbnail_url, t.excerpt, t.updated_at
		FROM templates t,
		     websearch_to_tsquery('english', $1) q
		WHERE t.status = 'published'
		  AND to_tsvector('english', t.title || ' ' || t.content) @@ q`
	args := []any{term}

	if postType != "" {
		args = append(args, postType)
		query += fmt.Sprintf(`
		  AND jsonb_exists(t.target_post_types, $%d)`, len(args))
	}

	args = append(args, searchLimit)
	query += fmt.Sprintf(`
		ORDER BY ts_rank(to_tsvector('english', t.title || ' ' || t.content), q) DESC, t.id
		LIMIT $%d`, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search templates: %w", err)
	}
	defer rows.Close()

	summaries, err := collectSummaries(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// collectSummaries scans summary rows into a slice. Always returns a
// non-nil slice so callers serialize an empty JSON array, not null.
func collectSummaries(rows *sql.Rows) ([]models.TemplateSummary, error) {
	summaries := []models.TemplateSummary{}
	for rows.Next() {
		var t models.TemplateSummary
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ThumbnailURL, &t.Excerpt, &t.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan template summary: %w", err)
		}
		summaries = append(summaries, t)
	}
	return summaries, rows.Err()
}

// attachCategories populates the Categories field of each summary with
// one query for the whole batch.
func (s *TemplateStore) attachCategories(summaries []models.TemplateSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	placeholders := make([]string, len(summaries))
	args := make([]any, len(summaries))
	index := make(map[int64]int, len(summaries))
	for i, t := range summaries {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = t.ID
		index[t.ID] = i
	}

	rows, err := s.db.Query(`
		SELECT a.template_id, c.id, c.name, c.icon, c.color
		FROM template_category_assignments a
		JOIN template_categories c ON c.id = a.category_id
		WHERE a.template_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY c.name
	`, args...)
	if err != nil {
		return fmt.Errorf("list template categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var templateID int64
		var c models.CategorySummary
		if err := rows.Scan(&templateID, &c.ID, &c.Name, &c.Icon, &c.Color); err != nil {
			return fmt.Errorf("scan template category: %w", err)
		}
		i := index[templateID]
		summaries[i].Categories = append(summaries[i].Categories, c)
	}
	return rows.Err()
}

// FindByID retrieves a template by ID. Returns nil if not found.
func (s *TemplateStore) FindByID(id int64) (*models.Template, error) {
	row := s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}

	t.Categories, err = s.categoriesFor(id)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// categoriesFor returns the full category records assigned to a template.
func (s *TemplateStore) categoriesFor(templateID int64) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.icon, c.color, c.created_at, c.updated_at
		FROM template_category_assignments a
		JOIN template_categories c ON c.id = a.category_id
		WHERE a.template_id = $1
		ORDER BY c.name
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("categories for template: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Create inserts a new template and returns it with the generated ID.
func (s *TemplateStore) Create(t *models.Template) (*models.Template, error) {
	if t.Status == "" {
		t.Status = models.TemplateStatusDraft
	}
	types, err := encodePostTypes(t.TargetPostTypes)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO templates (title, content, excerpt, description, status,
		                       target_post_types, auto_apply_featured_image,
		                       featured_image_id, thumbnail_url, sort_order, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+templateColumns,
		t.Title, t.Content, t.Excerpt, t.Description, t.Status,
		types, t.AutoApplyFeaturedImage,
		t.FeaturedImageID, t.ThumbnailURL, t.SortOrder, t.AuthorID,
	)
	result, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return result, nil
}

// Update modifies an existing template's editable fields. Usage counters
// are excluded; they change only through IncrementUsage.
func (s *TemplateStore) Update(t *models.Template) error {
	types, err := encodePostTypes(t.TargetPostTypes)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE templates SET
			title = $1, content = $2, excerpt = $3, description = $4, status = $5,
			target_post_types = $6, auto_apply_featured_image = $7,
			featured_image_id = $8, thumbnail_url = $9, sort_order = $10,
			updated_at = NOW()
		WHERE id = $11
	`, t.Title, t.Content, t.Excerpt, t.Description, t.Status,
		types, t.AutoApplyFeaturedImage,
		t.FeaturedImageID, t.ThumbnailURL, t.SortOrder, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a template by ID. Assignments and meta cascade.
func (s *TemplateStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// IncrementUsage bumps the cached usage counter and stamps last_used_at
// in a single atomic UPDATE. The counter is a display cache over the
// usage log and may drift from the true log count under failure.
func (s *TemplateStore) IncrementUsage(id int64) error {
	_, err := s.db.Exec(`
		UPDATE templates SET usage_count = usage_count + 1, last_used_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("increment template usage: %w", err)
	}
	return nil
}

// Meta returns all custom meta key/value pairs stored for a template.
func (s *TemplateStore) Meta(id int64) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM template_meta WHERE template_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("template meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan template meta: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// SetMeta upserts one custom meta value on a template.
func (s *TemplateStore) SetMeta(id int64, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO template_meta (template_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (template_id, key) DO UPDATE SET value = EXCLUDED.value
	`, id, key, value)
	if err != nil {
		return fmt.Errorf("set template meta: %w", err)
	}
	return nil
}

// SetCategories replaces a template's category assignments.
func (s *TemplateStore) SetCategories(id int64, categoryIDs []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM template_category_assignments WHERE template_id = $1`, id); err != nil {
		return fmt.Errorf("clear template categories: %w", err)
	}
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(`
			INSERT INTO template_category_assignments (template_id, category_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, id, cid); err != nil {
			return fmt.Errorf("assign template category %d: %w", cid, err)
		}
	}
	return tx.Commit()
}

// Duplicate copies a template into a new draft owned by authorID: title
// with a "(Copy)" suffix, same content, excerpt, description, settings,
// custom meta, category assignments, and featured image. Returns the new
// template ID. The whole copy runs in one transaction.
func (s *TemplateStore) Duplicate(id, authorID int64) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var newID int64
	err = tx.QueryRow(`
		INSERT INTO templates (title, content, excerpt, description, status,
		                       target_post_types, auto_apply_featured_image,
		                       featured_image_id, thumbnail_url, sort_order, author_id)
		SELECT title || ' (Copy)', content, excerpt, description, 'draft',
		       target_post_types, auto_apply_featured_image,
		       featured_image_id, thumbnail_url, sort_order, $2
		FROM templates WHERE id = $1
		RETURNING id
	`, id, authorID).Scan(&newID)
	if err == sql.ErrNoRows {
		return 0, sql.ErrNoRows
	}
	if err != nil {
		return 0, fmt.Errorf("duplicate template: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO template_meta (template_id, key, value)
		SELECT $2, key, value FROM template_meta WHERE template_id = $1
	`, id, newID); err != nil {
		return 0, fmt.Errorf("duplicate template meta: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO template_category_assignments (template_id, category_id)
		SELECT $2, category_id FROM template_category_assignments WHERE template_id = $1
	`, id, newID); err != nil {
		return 0, fmt.Errorf("duplicate template categories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit duplicate: %w", err)
	}
	return newID, nil
}

// CountPublished returns the number of published templates.
func (s *TemplateStore) CountPublished() (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM templates WHERE status = 'published'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}
