package review_test

import (
	"context"
	"testing"

	"bluecarbon/internal/review"
	"bluecarbon/internal/testsupport"
)

func TestStoreCommentRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := review.OpenStore(cfg)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.SaveComment(ctx, "p1", "first pass"); err != nil {
		t.Fatalf("SaveComment failed: %v", err)
	}
	if err := store.SaveComment(ctx, "p1", "revised"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	comment, err := store.Comment(ctx, "p1")
	if err != nil {
		t.Fatalf("Comment failed: %v", err)
	}
	if comment != "revised" {
		t.Errorf("comment = %q, want %q", comment, "revised")
	}

	if comment, err := store.Comment(ctx, "unknown"); err != nil || comment != "" {
		t.Errorf("missing draft should read as empty, got (%q, %v)", comment, err)
	}
}

func TestStoreCommentsSurviveReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := review.OpenStore(cfg)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	if err := store.SaveComment(ctx, "p1", "keep me"); err != nil {
		t.Fatalf("SaveComment failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := review.OpenStore(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	drafts, err := reopened.Comments(ctx)
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if drafts["p1"] != "keep me" {
		t.Errorf("drafts = %v, want p1 preserved", drafts)
	}
}

func TestStoreEmptyCommentDeletes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := review.OpenStore(cfg)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.SaveComment(ctx, "p1", "to be removed"); err != nil {
		t.Fatalf("SaveComment failed: %v", err)
	}
	if err := store.SaveComment(ctx, "p1", ""); err != nil {
		t.Fatalf("blank SaveComment failed: %v", err)
	}

	drafts, err := store.Comments(ctx)
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("drafts = %v, want empty", drafts)
	}

	// Deleting an absent draft is not an error.
	if err := store.DeleteComment(ctx, "missing"); err != nil {
		t.Errorf("DeleteComment on missing row failed: %v", err)
	}
}
