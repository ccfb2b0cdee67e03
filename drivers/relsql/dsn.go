package relsql

import (
	"fmt"
	"strings"
)

// sqliteDSN converts spec.md §6's bit-exact template
// "sqlite:///file:{file_path}?mode=rw&uri=true" into the DSN form
// mattn/go-sqlite3 expects ("file:{file_path}?mode=rw&uri=true").
func sqliteDSN(uri string) (string, error) {
	const prefix = "sqlite://"
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("relsql: sqlite uri %q missing %q prefix", uri, prefix)
	}
	dsn := strings.TrimPrefix(uri, prefix)
	dsn = strings.TrimPrefix(dsn, "/")
	if !strings.HasPrefix(dsn, "file:") {
		return "", fmt.Errorf("relsql: sqlite uri %q must continue with /file:{path}", uri)
	}
	return dsn, nil
}

// postgresDSN converts spec.md §6's template
// "postgresql://{user}:{password}@{host}:{port}/{dbname}?options=..."
// into a DSN lib/pq accepts. lib/pq parses "postgres://"/"postgresql://"
// URLs natively, so this only validates the scheme is one of the two.
func postgresDSN(uri string) (string, error) {
	if strings.HasPrefix(uri, "postgresql://") || strings.HasPrefix(uri, "postgres://") {
		return uri, nil
	}
	return "", fmt.Errorf("relsql: postgres uri %q must start with postgresql:// or postgres://", uri)
}
