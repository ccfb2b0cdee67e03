package docindex

import (
	"net/url"
	"strings"
)

// defaultDatabase is used when a document-index URI carries no path
// component. spec.md §6 templates the document-index URI as bare
// "{host}:{port}" (Elasticsearch has no database concept); MongoDB, the
// pack's closest real document client, requires one, so this driver reads
// it from an optional "/{dbname}" path segment and falls back to this name
// when absent.
const defaultDatabase = "etl"

func databaseName(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	name := strings.Trim(parsed.Path, "/")
	if name == "" {
		return defaultDatabase
	}
	return name
}
