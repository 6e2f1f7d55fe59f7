package layout

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type entryKind uint8

const (
	entrySingle entryKind = iota + 1
	entryComposite
)

// SchemaEntry maps one stat label to its output columns. It is either
// Single(column) or Composite(columns...); the zero value is invalid.
type SchemaEntry struct {
	Label   string
	kind    entryKind
	columns []string
}

func Single(label, column string) SchemaEntry {
	return SchemaEntry{Label: label, kind: entrySingle, columns: []string{column}}
}

func Composite(label string, columns ...string) SchemaEntry {
	return SchemaEntry{Label: label, kind: entryComposite, columns: append([]string(nil), columns...)}
}

func (e SchemaEntry) IsComposite() bool {
	return e.kind == entryComposite
}

// Columns returns the ordered output columns; callers must not mutate it.
func (e SchemaEntry) Columns() []string {
	return e.columns
}

// Width is the number of values one team contributes for this entry.
func (e SchemaEntry) Width() int {
	return len(e.columns)
}

func (e SchemaEntry) validate() error {
	if strings.TrimSpace(e.Label) == "" {
		return fmt.Errorf("schema entry label is required")
	}
	switch e.kind {
	case entrySingle:
		if len(e.columns) != 1 {
			return fmt.Errorf("schema entry %q: single entry needs exactly one column", e.Label)
		}
	case entryComposite:
		if len(e.columns) < 2 {
			return fmt.Errorf("schema entry %q: composite entry needs at least two columns", e.Label)
		}
	default:
		return fmt.Errorf("schema entry %q: missing single or composite columns", e.Label)
	}
	for _, col := range e.columns {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("schema entry %q: empty column name", e.Label)
		}
	}
	return nil
}

type schemaEntryYAML struct {
	Label     string   `yaml:"label"`
	Single    string   `yaml:"single,omitempty"`
	Composite []string `yaml:"composite,omitempty"`
}

func (e SchemaEntry) MarshalYAML() (any, error) {
	out := schemaEntryYAML{Label: e.Label}
	if e.IsComposite() {
		out.Composite = e.columns
	} else if len(e.columns) == 1 {
		out.Single = e.columns[0]
	}
	return out, nil
}

func (e *SchemaEntry) UnmarshalYAML(node *yaml.Node) error {
	var raw schemaEntryYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.Single != "" && len(raw.Composite) > 0:
		return fmt.Errorf("schema entry %q: single and composite are mutually exclusive", raw.Label)
	case raw.Single != "":
		*e = Single(raw.Label, raw.Single)
	case len(raw.Composite) > 0:
		*e = Composite(raw.Label, raw.Composite...)
	default:
		*e = SchemaEntry{Label: raw.Label}
	}
	return nil
}

// Schema is an indexed, ordered set of entries.
type Schema struct {
	entries []SchemaEntry
	byLabel map[string]int
}

func NewSchema(entries ...SchemaEntry) (Schema, error) {
	s := Schema{
		entries: make([]SchemaEntry, 0, len(entries)),
		byLabel: make(map[string]int, len(entries)),
	}
	for _, entry := range entries {
		if err := entry.validate(); err != nil {
			return Schema{}, err
		}
		if _, dup := s.byLabel[entry.Label]; dup {
			return Schema{}, fmt.Errorf("duplicate schema label %q", entry.Label)
		}
		s.byLabel[entry.Label] = len(s.entries)
		s.entries = append(s.entries, entry)
	}
	return s, nil
}

// MustSchema is NewSchema for static tables.
func MustSchema(entries ...SchemaEntry) Schema {
	s, err := NewSchema(entries...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Schema) Lookup(label string) (SchemaEntry, bool) {
	idx, ok := s.byLabel[label]
	if !ok {
		return SchemaEntry{}, false
	}
	return s.entries[idx], true
}

func (s Schema) Entries() []SchemaEntry {
	return s.entries
}

func (s Schema) Len() int {
	return len(s.entries)
}

// Columns returns every column across all entries in schema order, without
// duplicates.
func (s Schema) Columns() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(s.entries)*2)
	for _, entry := range s.entries {
		for _, col := range entry.columns {
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			out = append(out, col)
		}
	}
	return out
}

// Published returns Columns minus the helper columns.
func (s Schema) Published(helpers []string) []string {
	drop := make(map[string]struct{}, len(helpers))
	for _, h := range helpers {
		drop[h] = struct{}{}
	}
	all := s.Columns()
	out := make([]string, 0, len(all))
	for _, col := range all {
		if _, ok := drop[col]; ok {
			continue
		}
		out = append(out, col)
	}
	return out
}
