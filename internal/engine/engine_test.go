// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"errors"
	"strings"
	"testing"

	"templatekit/internal/models"
)

// fakeTemplates is an in-memory TemplateSource.
type fakeTemplates struct {
	templates  map[int64]*models.Template
	meta       map[int64]map[string]string
	increments []int64
	incrErr    error
	duplicated int64
}

func (f *fakeTemplates) FindByID(id int64) (*models.Template, error) {
	return f.templates[id], nil
}

func (f *fakeTemplates) Meta(id int64) (map[string]string, error) {
	return f.meta[id], nil
}

func (f *fakeTemplates) IncrementUsage(id int64) error {
	if f.incrErr != nil {
		return f.incrErr
	}
	f.increments = append(f.increments, id)
	return nil
}

func (f *fakeTemplates) Duplicate(id, authorID int64) (int64, error) {
	f.duplicated = id
	return id + 100, nil
}

// fakePosts is an in-memory PostRepository recording mutations.
type fakePosts struct {
	posts          map[int64]*models.Post
	meta           map[int64]map[string]string
	images         map[int64]int64
	updateErr      error
	vanishOnUpdate bool
}

func (f *fakePosts) FindByID(id int64) (*models.Post, error) {
	return f.posts[id], nil
}

func (f *fakePosts) UpdateContent(id int64, content string, excerpt *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	p := f.posts[id]
	p.Content = content
	if excerpt != nil {
		p.Excerpt = *excerpt
	}
	if f.vanishOnUpdate {
		delete(f.posts, id)
	}
	return nil
}

func (f *fakePosts) SetFeaturedImage(id, imageID int64) error {
	if f.images == nil {
		f.images = make(map[int64]int64)
	}
	f.images[id] = imageID
	f.posts[id].FeaturedImageID = &imageID
	return nil
}

func (f *fakePosts) SetMeta(id int64, key, value string) error {
	if f.meta == nil {
		f.meta = make(map[int64]map[string]string)
	}
	if f.meta[id] == nil {
		f.meta[id] = make(map[string]string)
	}
	f.meta[id][key] = value
	return nil
}

// fakeUsage records usage events, optionally failing.
type fakeUsage struct {
	events []models.UsageEvent
	err    error
}

func (f *fakeUsage) Record(templateID, postID, userID int64) (*models.UsageEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	ev := models.UsageEvent{TemplateID: templateID, PostID: postID, UserID: userID}
	f.events = append(f.events, ev)
	return &ev, nil
}

// fakePerms allows configuring each capability separately.
type fakePerms struct {
	editPost  bool
	manage    bool
	lastPost  int64
	lastActor *models.User
}

func (f *fakePerms) CanEditPost(user *models.User, postID int64) bool {
	f.lastActor = user
	f.lastPost = postID
	return f.editPost
}

func (f *fakePerms) CanManageTemplates(user *models.User) bool {
	return f.manage
}

// fakeConfig is a static engine configuration.
type fakeConfig struct {
	tracking bool
	metaKeys []string
}

func (f *fakeConfig) UsageTrackingEnabled() bool { return f.tracking }
func (f *fakeConfig) CopyableMetaKeys() []string { return f.metaKeys }

func editor() *models.User {
	return &models.User{ID: 7, Email: "editor@templatekit.local", Role: models.RoleEditor}
}

// newFixture wires an engine around one template and one post.
func newFixture() (*Engine, *fakeTemplates, *fakePosts, *fakeUsage, *fakePerms, *fakeConfig) {
	templates := &fakeTemplates{
		templates: map[int64]*models.Template{
			1: {
				ID:              1,
				Title:           "Job Posting",
				Content:         "template body",
				Excerpt:         "template excerpt",
				Status:          models.TemplateStatusPublished,
				TargetPostTypes: []string{"post"},
			},
		},
		meta: map[int64]map[string]string{1: {}},
	}
	posts := &fakePosts{
		posts: map[int64]*models.Post{
			10: {ID: 10, Type: "post", Content: "old content", Excerpt: "old excerpt"},
		},
	}
	usage := &fakeUsage{}
	perms := &fakePerms{editPost: true, manage: true}
	config := &fakeConfig{tracking: true}
	return New(templates, posts, usage, perms, config), templates, posts, usage, perms, config
}

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected engine error, got %v", err)
	}
	return e.Kind
}

func TestApplyValidatesIDs(t *testing.T) {
	eng, _, _, _, _, _ := newFixture()

	if _, err := eng.Apply(0, 10, editor()); kindOf(t, err) != KindValidationFailed {
		t.Error("zero template id should fail validation")
	}
	if _, err := eng.Apply(1, -3, editor()); kindOf(t, err) != KindValidationFailed {
		t.Error("negative post id should fail validation")
	}
}

func TestApplyPermissionDenied(t *testing.T) {
	eng, _, posts, usage, perms, _ := newFixture()
	perms.editPost = false

	_, err := eng.Apply(1, 10, editor())
	if kindOf(t, err) != KindPermissionDenied {
		t.Fatalf("expected permission denied, got %v", err)
	}

	// Nothing may have been written.
	if posts.posts[10].Content != "old content" {
		t.Error("content must not change on permission failure")
	}
	if len(usage.events) != 0 {
		t.Error("no usage may be recorded on permission failure")
	}
}

func TestApplyNilActorDenied(t *testing.T) {
	eng, _, _, _, _, _ := newFixture()

	_, err := eng.Apply(1, 10, nil)
	if kindOf(t, err) != KindPermissionDenied {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestApplyTemplateNotFound(t *testing.T) {
	eng, _, _, _, _, _ := newFixture()

	_, err := eng.Apply(99, 10, editor())
	if kindOf(t, err) != KindTemplateNotFound {
		t.Fatalf("expected template not found, got %v", err)
	}
}

func TestApplyPostNotFound(t *testing.T) {
	eng, _, _, _, _, _ := newFixture()

	_, err := eng.Apply(1, 99, editor())
	if kindOf(t, err) != KindPostNotFound {
		t.Fatalf("expected post not found, got %v", err)
	}
}

func TestApplyIncompatibleType(t *testing.T) {
	eng, templates, posts, usage, _, _ := newFixture()
	templates.templates[1].TargetPostTypes = []string{"page"}

	_, err := eng.Apply(1, 10, editor())
	if kindOf(t, err) != KindIncompatibleType {
		t.Fatalf("expected incompatible type, got %v", err)
	}

	// The rejection happens before any write.
	if posts.posts[10].Content != "old content" {
		t.Error("content must not change on an incompatible type")
	}
	if posts.posts[10].Excerpt != "old excerpt" {
		t.Error("excerpt must not change on an incompatible type")
	}
	if len(usage.events) != 0 {
		t.Error("no usage may be recorded on an incompatible type")
	}
}

func TestApplyOverwritesContentAndExcerpt(t *testing.T) {
	eng, _, posts, usage, _, _ := newFixture()

	result, err := eng.Apply(1, 10, editor())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if result.Content != "template body" {
		t.Errorf("content: got %q", result.Content)
	}
	if result.Excerpt != "template excerpt" {
		t.Errorf("excerpt: got %q", result.Excerpt)
	}
	if posts.posts[10].Content != "template body" {
		t.Error("post content not overwritten")
	}
	if len(usage.events) != 1 {
		t.Fatalf("usage events: got %d, want 1", len(usage.events))
	}
	if usage.events[0].UserID != 7 {
		t.Errorf("usage user: got %d, want 7", usage.events[0].UserID)
	}
}

func TestApplyTwiceYieldsSameState(t *testing.T) {
	imageID := int64(42)
	eng, templates, posts, usage, _, config := newFixture()
	templates.templates[1].AutoApplyFeaturedImage = true
	templates.templates[1].FeaturedImageID = &imageID
	config.metaKeys = []string{"layout"}
	templates.meta[1] = map[string]string{"layout": "two-column"}

	first, err := eng.Apply(1, 10, editor())
	if err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	second, err := eng.Apply(1, 10, editor())
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	if second.Content != first.Content {
		t.Errorf("content diverged: %q vs %q", second.Content, first.Content)
	}
	if second.Excerpt != first.Excerpt {
		t.Errorf("excerpt diverged: %q vs %q", second.Excerpt, first.Excerpt)
	}
	if first.FeaturedImageID == nil || second.FeaturedImageID == nil || *second.FeaturedImageID != *first.FeaturedImageID {
		t.Error("featured image diverged between applications")
	}

	post := posts.posts[10]
	if post.Content != first.Content || post.Excerpt != first.Excerpt {
		t.Error("post state diverged from the first application")
	}
	if posts.meta[10]["layout"] != "two-column" {
		t.Errorf("post meta: got %q", posts.meta[10]["layout"])
	}

	// The usage log is the deliberate exception: one event per call.
	if len(usage.events) != 2 {
		t.Errorf("usage events: got %d, want 2", len(usage.events))
	}
	if len(templates.increments) != 2 {
		t.Errorf("counter bumps: got %d, want 2", len(templates.increments))
	}
}

func TestApplyEmptyExcerptPreservesExisting(t *testing.T) {
	eng, templates, posts, _, _, _ := newFixture()
	templates.templates[1].Excerpt = ""

	result, err := eng.Apply(1, 10, editor())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if posts.posts[10].Excerpt != "old excerpt" {
		t.Errorf("excerpt: got %q, want the original kept", posts.posts[10].Excerpt)
	}
	if result.Excerpt != "old excerpt" {
		t.Errorf("result excerpt: got %q", result.Excerpt)
	}
}

func TestApplyFeaturedImage(t *testing.T) {
	imageID := int64(42)

	t.Run("copied when opted in", func(t *testing.T) {
		eng, templates, posts, _, _, _ := newFixture()
		templates.templates[1].AutoApplyFeaturedImage = true
		templates.templates[1].FeaturedImageID = &imageID

		result, err := eng.Apply(1, 10, editor())
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if posts.images[10] != imageID {
			t.Error("featured image not copied")
		}
		if result.FeaturedImageID == nil || *result.FeaturedImageID != imageID {
			t.Error("result missing featured image")
		}
	})

	t.Run("skipped without opt-in", func(t *testing.T) {
		eng, templates, posts, _, _, _ := newFixture()
		templates.templates[1].FeaturedImageID = &imageID

		if _, err := eng.Apply(1, 10, editor()); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if len(posts.images) != 0 {
			t.Error("featured image must not be copied without the flag")
		}
	})

	t.Run("skipped when template has none", func(t *testing.T) {
		eng, templates, posts, _, _, _ := newFixture()
		templates.templates[1].AutoApplyFeaturedImage = true

		if _, err := eng.Apply(1, 10, editor()); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if len(posts.images) != 0 {
			t.Error("featured image must not be copied when the template has none")
		}
	})
}

func TestApplyCopiesAllowListedMeta(t *testing.T) {
	eng, templates, posts, _, _, config := newFixture()
	config.metaKeys = []string{"layout", "color", "missing"}
	templates.meta[1] = map[string]string{
		"layout":  "two-column",
		"color":   "", // empty values are skipped
		"secret":  "not allow-listed",
		"ignored": "also not allow-listed",
	}

	if _, err := eng.Apply(1, 10, editor()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	got := posts.meta[10]
	if got["layout"] != "two-column" {
		t.Errorf("layout meta: got %q", got["layout"])
	}
	if _, ok := got["color"]; ok {
		t.Error("empty meta value must be skipped")
	}
	if _, ok := got["secret"]; ok {
		t.Error("non-allow-listed meta must not be copied")
	}
}

func TestApplyUsageTrackingDisabled(t *testing.T) {
	eng, templates, _, usage, _, config := newFixture()
	config.tracking = false

	if _, err := eng.Apply(1, 10, editor()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(usage.events) != 0 {
		t.Error("usage must not be recorded when tracking is disabled")
	}
	if len(templates.increments) != 0 {
		t.Error("counter must not be bumped when tracking is disabled")
	}
}

func TestApplyUsageFailureIsNotFatal(t *testing.T) {
	eng, templates, posts, usage, _, _ := newFixture()
	usage.err = errors.New("log unavailable")
	templates.incrErr = errors.New("counter unavailable")

	result, err := eng.Apply(1, 10, editor())
	if err != nil {
		t.Fatalf("Apply must succeed despite tracking failures: %v", err)
	}
	if result.Content != "template body" {
		t.Error("content must still be applied")
	}
	if posts.posts[10].Content != "template body" {
		t.Error("post must still be updated")
	}
}

func TestApplyDependencyFailure(t *testing.T) {
	eng, _, posts, _, _, _ := newFixture()
	posts.updateErr = errors.New("connection reset")

	_, err := eng.Apply(1, 10, editor())
	if kindOf(t, err) != KindDependencyFailure {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if !IsKind(err, KindDependencyFailure) {
		t.Error("IsKind must match the wrapped kind")
	}
}

func TestApplyReloadMissingPost(t *testing.T) {
	eng, _, posts, _, _, _ := newFixture()
	posts.vanishOnUpdate = true

	_, err := eng.Apply(1, 10, editor())
	if kindOf(t, err) != KindDependencyFailure {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if msg := err.Error(); strings.Contains(msg, "%!w") {
		t.Errorf("error message carries a mangled wrap: %q", msg)
	}
}

func TestDuplicate(t *testing.T) {
	eng, templates, _, _, perms, _ := newFixture()

	newID, err := eng.Duplicate(1, editor())
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if newID != 101 {
		t.Errorf("new id: got %d, want 101", newID)
	}
	if templates.duplicated != 1 {
		t.Errorf("duplicated source: got %d, want 1", templates.duplicated)
	}

	perms.manage = false
	if _, err := eng.Duplicate(1, editor()); kindOf(t, err) != KindPermissionDenied {
		t.Error("duplicate without manage permission must be denied")
	}

	perms.manage = true
	if _, err := eng.Duplicate(99, editor()); kindOf(t, err) != KindTemplateNotFound {
		t.Error("duplicating a missing template must report not found")
	}

	if _, err := eng.Duplicate(0, editor()); kindOf(t, err) != KindValidationFailed {
		t.Error("zero id must fail validation")
	}
}
