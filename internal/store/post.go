// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"templatekit/internal/models"
)

// PostStore handles target-post database operations. The application
// engine mutates posts only through this store and always re-fetches
// before returning results to the caller.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, type, title, content, excerpt, status,
	featured_image_id, author_id, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Type, &p.Title, &p.Content, &p.Excerpt, &p.Status,
		&p.FeaturedImageID, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a post by ID. Returns nil if not found.
func (s *PostStore) FindByID(id int64) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if p.Type == "" {
		p.Type = "post"
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (type, title, content, excerpt, status, featured_image_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.Type, p.Title, p.Content, p.Excerpt, p.Status, p.FeaturedImageID, p.AuthorID,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// UpdateContent overwrites a post's content and, when excerpt is
// non-nil, its excerpt. A nil excerpt leaves the stored excerpt
// untouched — the engine uses this to avoid clearing an existing
// excerpt with an empty template excerpt.
func (s *PostStore) UpdateContent(id int64, content string, excerpt *string) error {
	var err error
	if excerpt != nil {
		_, err = s.db.Exec(`
			UPDATE posts SET content = $1, excerpt = $2, updated_at = NOW()
			WHERE id = $3
		`, content, *excerpt, id)
	} else {
		_, err = s.db.Exec(`
			UPDATE posts SET content = $1, updated_at = NOW()
			WHERE id = $2
		`, content, id)
	}
	if err != nil {
		return fmt.Errorf("update post content: %w", err)
	}
	return nil
}

// SetFeaturedImage points the post's featured image at the given media asset.
func (s *PostStore) SetFeaturedImage(id, imageID int64) error {
	_, err := s.db.Exec(`
		UPDATE posts SET featured_image_id = $1, updated_at = NOW()
		WHERE id = $2
	`, imageID, id)
	if err != nil {
		return fmt.Errorf("set post featured image: %w", err)
	}
	return nil
}

// Meta returns all custom meta key/value pairs stored for a post.
func (s *PostStore) Meta(id int64) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM post_meta WHERE post_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("post meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan post meta: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// SetMeta upserts one custom meta value on a post.
func (s *PostStore) SetMeta(id int64, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO post_meta (post_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, key) DO UPDATE SET value = EXCLUDED.value
	`, id, key, value)
	if err != nil {
		return fmt.Errorf("set post meta: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Meta rows cascade.
func (s *PostStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
