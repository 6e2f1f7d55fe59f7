package layout

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Validate checks struct constraints and that the stat schema indexes cleanly.
func (l Layout) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("validate layout %q: %w", l.Version, err)
	}
	if _, err := l.Schema(); err != nil {
		return fmt.Errorf("validate layout %q: %w", l.Version, err)
	}
	return nil
}

// Schema indexes the stat schema entries.
func (l Layout) Schema() (Schema, error) {
	return NewSchema(l.Stats.Entries...)
}

// PublishedColumns is the stat column set every team record carries.
func (l Layout) PublishedColumns() []string {
	s, err := l.Schema()
	if err != nil {
		return nil
	}
	return s.Published(l.Stats.HelperColumns)
}

// Load reads a YAML layout file. Keys absent from the file keep the
// wyscout-v1 values; lists such as shot_policies are replaced whole. An empty
// path returns the default layout.
func Load(path string) (Layout, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Layout, error) {
	l := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Encode renders the layout as YAML, the same shape Load accepts.
func (l Layout) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return buf.Bytes(), nil
}
