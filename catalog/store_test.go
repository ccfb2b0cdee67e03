package catalog

import (
	"strings"
	"testing"
)

func TestLoadParsesPipelineDefinition(t *testing.T) {
	doc := `
processes:
  - id: 1
    slug: books-to-search
    from_table: book
    to_table: book
    index_col: id
    sync: true
    time_interval: "5 mins"
    status: active
    source:
      slug: main-db
      type: relational-sqlite
      uri: "sqlite:///file:main.db?mode=rw&uri=true"
    target:
      slug: search
      type: document-index
      uri: "localhost:9200"
    model:
      title: Book
      columns:
        - name: id
          type: int
        - name: title
          type: str
          default: "''"
    relationships:
      - related_name: tags
        table: tag
        through_table: book_tag
        flat: false
        model:
          title: Tag
          columns:
            - name: name
              type: str
`
	store, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	p, err := store.GetPipeline(1)
	if err != nil {
		t.Fatalf("GetPipeline(1) returned error: %v", err)
	}
	if p.Slug != "books-to-search" {
		t.Errorf("Slug = %q, want %q", p.Slug, "books-to-search")
	}
	if p.Source.Type != RelationalSQLite {
		t.Errorf("Source.Type = %q, want %q", p.Source.Type, RelationalSQLite)
	}
	if p.Target.Type != DocumentIndex {
		t.Errorf("Target.Type = %q, want %q", p.Target.Type, DocumentIndex)
	}
	if got := p.IndexColumn(); got != "id" {
		t.Errorf("IndexColumn() = %q, want %q", got, "id")
	}
	if len(p.Relationships) != 1 || p.Relationships[0].FKSuffix() != "_id" {
		t.Fatalf("expected one relationship with default suffix, got %+v", p.Relationships)
	}
}

func TestGetPipelineUnknownID(t *testing.T) {
	store := NewStore(map[int64]Process{})
	if _, err := store.GetPipeline(99); err == nil {
		t.Fatal("expected error for unknown pipeline id")
	}
}

func TestProcessValidateRejectsFlatRelationshipWithMultipleColumns(t *testing.T) {
	p := Process{
		Slug:   "bad",
		Source: Database{Slug: "a"},
		Target: Database{Slug: "b"},
		Model:  Model{Columns: []Column{{Name: "id", Type: ColInt}}},
		Relationships: []Relationship{
			{
				RelatedName:  "tags",
				Table:        "tag",
				ThroughTable: "book_tag",
				Flat:         true,
				Model: Model{Columns: []Column{
					{Name: "id", Type: ColInt},
					{Name: "name", Type: ColString},
				}},
			},
		},
	}
	if err := p.Validate(); err == nil {
		t.Fatal("expected Validate to reject a flat relationship with more than one nested column")
	}
}
