// Package fixture loads collection fixtures from YAML files.
//
// A fixture file describes one collection and its records in order:
//
//	collection: pending_orders
//	records:
//	  - id: ord-1
//	    fields:
//	      status: pending
//	      total: 42
//	  - fields:
//	      status: pending
//
// Records without an id are assigned one at load time (UUIDv7), so fixture
// authors only spell out identifiers they intend to look up later.
package fixture

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/metaphiz/acts-as-union/record"
)

// Fixture is one parsed fixture file.
type Fixture struct {
	// Collection is the target collection name.
	Collection string `yaml:"collection"`

	// Records are the collection's records in declared order.
	Records []Record `yaml:"records"`
}

// Record is one fixture record.
type Record struct {
	ID     string         `yaml:"id,omitempty"`
	Fields map[string]any `yaml:"fields"`
}

// Load reads and parses a fixture file.
//
// Records without an id get a freshly minted UUIDv7 identifier; all
// identifiers are NFC-normalized.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse parses fixture YAML.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Collection == "" {
		return nil, fmt.Errorf("parse fixture: collection is required")
	}
	for i := range f.Records {
		if f.Records[i].ID == "" {
			f.Records[i].ID = uuid.Must(uuid.NewV7()).String()
		}
	}
	return &f, nil
}

// ToRecords converts the fixture's records to record values in order.
func (f *Fixture) ToRecords() []*record.Record {
	recs := make([]*record.Record, 0, len(f.Records))
	for _, fr := range f.Records {
		recs = append(recs, record.New(record.NormalizeID(record.ID(fr.ID)), fr.Fields))
	}
	return recs
}
