package aggregator

import (
	"testing"

	"github.com/riverstack/etlcore/catalog"
	"github.com/riverstack/etlcore/frame"
)

func tagModel() catalog.Model {
	return catalog.Model{
		Title:   "tag",
		Columns: []catalog.Column{{Name: "name", Type: catalog.ColString}},
	}
}

func TestBuildNestedColumnFlat(t *testing.T) {
	// book_tag junction: book_id -> tag_id
	through := frame.FromRows([]string{"id", "book_id", "tag_id"}, []map[string]any{
		{"id": int64(1), "book_id": int64(1), "tag_id": int64(10)},
		{"id": int64(2), "book_id": int64(1), "tag_id": int64(11)},
		{"id": int64(3), "book_id": int64(2), "tag_id": int64(10)},
	})
	leaf := frame.FromRows([]string{"id", "name"}, []map[string]any{
		{"id": int64(10), "name": "fiction"},
		{"id": int64(11), "name": "drama"},
	})

	rel := catalog.Relationship{
		RelatedName:  "tags",
		Table:        "tag",
		ThroughTable: "book_tag",
		Flat:         true,
		Model:        tagModel(),
	}

	nested, err := BuildNestedColumn(through, leaf, rel, "book", "id")
	if err != nil {
		t.Fatalf("BuildNestedColumn returned error: %v", err)
	}

	if j, ok := nested.IndexOf(int64(1)); !ok {
		t.Fatal("expected group for book_id=1")
	} else {
		tags := nested.Get(j, "tags").([]any)
		if len(tags) != 2 {
			t.Errorf("tags for book 1 = %v, want 2 entries", tags)
		}
	}

	if j, ok := nested.IndexOf(int64(2)); !ok {
		t.Fatal("expected group for book_id=2")
	} else {
		tags := nested.Get(j, "tags").([]any)
		if len(tags) != 1 || tags[0] != "fiction" {
			t.Errorf("tags for book 2 = %v, want [fiction]", tags)
		}
	}
}

func TestBuildNestedColumnNested(t *testing.T) {
	through := frame.FromRows([]string{"id", "book_id", "review_id"}, []map[string]any{
		{"id": int64(1), "book_id": int64(1), "review_id": int64(100)},
	})
	leaf := frame.FromRows([]string{"id", "score"}, []map[string]any{
		{"id": int64(100), "score": 4.5},
	})

	rel := catalog.Relationship{
		RelatedName:  "reviews",
		Table:        "review",
		ThroughTable: "book_review",
		Flat:         false,
		Model: catalog.Model{
			Columns: []catalog.Column{
				{Name: "id", Type: catalog.ColInt},
				{Name: "score", Type: catalog.ColFloat},
			},
		},
	}

	nested, err := BuildNestedColumn(through, leaf, rel, "book", "id")
	if err != nil {
		t.Fatalf("BuildNestedColumn returned error: %v", err)
	}

	j, ok := nested.IndexOf(int64(1))
	if !ok {
		t.Fatal("expected group for book_id=1")
	}
	reviews := nested.Get(j, "reviews").([]any)
	if len(reviews) != 1 {
		t.Fatalf("reviews = %v, want 1 entry", reviews)
	}
	record := reviews[0].(map[string]any)
	if record["score"] != 4.5 {
		t.Errorf("score = %v, want 4.5", record["score"])
	}
}

func TestBuildNestedColumnAppliesCondition(t *testing.T) {
	through := frame.FromRows([]string{"id", "book_id", "tag_id"}, []map[string]any{
		{"id": int64(1), "book_id": int64(1), "tag_id": int64(10)},
		{"id": int64(2), "book_id": int64(1), "tag_id": int64(11)},
	})
	leaf := frame.FromRows([]string{"id", "name"}, []map[string]any{
		{"id": int64(10), "name": "fiction"},
		{"id": int64(11), "name": "archived"},
	})

	rel := catalog.Relationship{
		RelatedName: "tags",
		Table:       "tag",
		Flat:        true,
		Condition:   `name != "archived"`,
		Model:       tagModel(),
	}

	nested, err := BuildNestedColumn(through, leaf, rel, "book", "id")
	if err != nil {
		t.Fatalf("BuildNestedColumn returned error: %v", err)
	}
	j, ok := nested.IndexOf(int64(1))
	if !ok {
		t.Fatal("expected group for book_id=1")
	}
	tags := nested.Get(j, "tags").([]any)
	if len(tags) != 1 || tags[0] != "fiction" {
		t.Errorf("tags = %v, want [fiction] after filtering archived", tags)
	}
}

func TestBuildNestedColumnInvalidConditionIsError(t *testing.T) {
	through := frame.FromRows([]string{"id", "book_id", "tag_id"}, nil)
	leaf := frame.FromRows([]string{"id", "name"}, nil)

	rel := catalog.Relationship{
		RelatedName: "tags",
		Table:       "tag",
		Flat:        true,
		Condition:   "== broken",
		Model:       tagModel(),
	}

	if _, err := BuildNestedColumn(through, leaf, rel, "book", "id"); err == nil {
		t.Fatal("expected error for malformed condition")
	}
}
