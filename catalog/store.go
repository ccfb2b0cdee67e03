package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Store is an in-memory stand-in for the external metadata store (spec
// section "EXTERNAL INTERFACES" — "Catalog interface"). It satisfies
// GetPipeline(id) with eager access to source/target/model/relationships,
// the contract the job entrypoints depend on. A production deployment
// points the engine at a database-backed implementation of the same
// interface instead; nothing in the engine depends on Store specifically.
type Store struct {
	processes map[int64]Process
}

// ProcessSource is the catalog provider the job entrypoints consume.
type ProcessSource interface {
	GetPipeline(id int64) (Process, error)
}

// document is the on-disk shape of a catalog fixture file: a flat list of
// processes, each self-contained (source/target/model/relationships are
// spelled out inline rather than normalized into a cross-referenced graph,
// since YAML offers no join — the external metadata store does this
// normalization for real; our stand-in doesn't need to).
type document struct {
	Processes []Process `yaml:"processes"`
}

// NewStore builds a Store from already-decoded processes, keyed by ID.
func NewStore(processes map[int64]Process) *Store {
	return &Store{processes: processes}
}

// Load parses a catalog document from r.
func Load(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read catalog document: %w", err)
	}
	return parse(data)
}

// LoadFile parses a catalog document from a YAML file on disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is operator-supplied configuration
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read catalog file %q: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse catalog document: %w", err)
	}

	processes := make(map[int64]Process, len(doc.Processes))
	for _, p := range doc.Processes {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		processes[p.ID] = p
	}
	return NewStore(processes), nil
}

// GetPipeline implements ProcessSource.
func (s *Store) GetPipeline(id int64) (Process, error) {
	p, ok := s.processes[id]
	if !ok {
		return Process{}, fmt.Errorf("catalog: no pipeline registered with id %d", id)
	}
	return p, nil
}
