// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
)

func TestPostStoreUpdateContent(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	post := testPost(t, db, "post")

	excerpt := "new excerpt"
	if err := s.UpdateContent(post.ID, "new content", &excerpt); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	found, err := s.FindByID(post.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Content != "new content" {
		t.Errorf("content: got %q", found.Content)
	}
	if found.Excerpt != "new excerpt" {
		t.Errorf("excerpt: got %q", found.Excerpt)
	}
}

func TestPostStoreUpdateContentNilExcerpt(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	post := testPost(t, db, "post")

	if err := s.UpdateContent(post.ID, "only content changes", nil); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	found, err := s.FindByID(post.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Content != "only content changes" {
		t.Errorf("content: got %q", found.Content)
	}
	if found.Excerpt != "original excerpt" {
		t.Errorf("excerpt: got %q, want the original kept", found.Excerpt)
	}
}

func TestPostStoreFeaturedImageAndMeta(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	post := testPost(t, db, "page")

	if err := s.SetFeaturedImage(post.ID, 77); err != nil {
		t.Fatalf("SetFeaturedImage: %v", err)
	}
	if err := s.SetMeta(post.ID, "layout", "wide"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}

	found, err := s.FindByID(post.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.FeaturedImageID == nil || *found.FeaturedImageID != 77 {
		t.Error("featured image not persisted")
	}

	meta, err := s.Meta(post.ID)
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if meta["layout"] != "wide" {
		t.Errorf("meta: got %q", meta["layout"])
	}
}
