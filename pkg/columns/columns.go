// Package columns rewrites localized column names in a question into the
// canonical identifiers of the drawing table.
package columns

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed columns.yaml
var defaultMappingData []byte

var (
	ErrDuplicateColumn = errors.New("duplicate canonical column")
	ErrEmptyName       = errors.New("empty localized name")
	ErrInvalidMapping  = errors.New("invalid column mapping")
)

// Translation is the display name of a column in one locale.
type Translation struct {
	Locale string
	Name   string
}

// Column is a canonical identifier and its localized names, in file order.
type Column struct {
	Name         string
	Translations []Translation
}

// Mapping is an ordered, read-only canonical to localized name table.
// The zero value is an empty mapping.
type Mapping struct {
	columns []Column
}

var (
	defaultOnce    sync.Once
	defaultMapping *Mapping
)

// Default returns the mapping shipped with the binary.
func Default() *Mapping {
	defaultOnce.Do(func() {
		m, err := Parse(defaultMappingData)
		if err != nil {
			panic(fmt.Sprintf("columns: embedded mapping: %v", err))
		}
		defaultMapping = m
	})

	return defaultMapping
}

// Load reads a mapping file with the same shape as the embedded one.
func Load(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column mapping %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse column mapping %s: %w", path, err)
	}

	return m, nil
}

// Parse decodes a YAML mapping of canonical identifiers to locale/name
// pairs. Document order is kept for both levels.
func Parse(data []byte) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	if doc.Kind == 0 {
		return &Mapping{}, nil
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidMapping)
	}

	root := doc.Content[0]
	seen := make(map[string]bool, len(root.Content)/2)
	columns := make([]Column, 0, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		name := strings.TrimSpace(key.Value)

		if name == "" {
			return nil, fmt.Errorf("%w: line %d: empty column name", ErrInvalidMapping, key.Line)
		}

		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
		seen[name] = true

		if value.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: line %d: %s must map locales to names", ErrInvalidMapping, value.Line, name)
		}

		col := Column{Name: name}
		for j := 0; j+1 < len(value.Content); j += 2 {
			locale, localized := value.Content[j].Value, value.Content[j+1].Value
			if localized == "" {
				return nil, fmt.Errorf("%w: %s.%s", ErrEmptyName, name, locale)
			}
			if !norm.NFC.IsNormalString(localized) {
				return nil, fmt.Errorf("%w: line %d: %s.%s is not in NFC form", ErrInvalidMapping, value.Content[j+1].Line, name, locale)
			}

			col.Translations = append(col.Translations, Translation{
				Locale: locale,
				Name:   localized,
			})
		}

		columns = append(columns, col)
	}

	return &Mapping{columns: columns}, nil
}

// Columns returns a copy of the mapping entries.
func (m *Mapping) Columns() []Column {
	if m == nil {
		return nil
	}

	out := make([]Column, len(m.columns))
	for i, c := range m.columns {
		out[i] = Column{
			Name:         c.Name,
			Translations: append([]Translation(nil), c.Translations...),
		}
	}

	return out
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.columns)
}

// Lookup returns the localized name of a column for the given locale.
func (m *Mapping) Lookup(column, locale string) (string, bool) {
	if m == nil {
		return "", false
	}

	for _, c := range m.columns {
		if c.Name != column {
			continue
		}
		for _, t := range c.Translations {
			if t.Locale == locale {
				return t.Name, true
			}
		}
		return "", false
	}

	return "", false
}

// Normalize replaces every localized column name found in question with its
// canonical identifier. Matching is a plain case-sensitive substring match
// applied in mapping order, so overlapping names resolve by whichever entry
// comes first. Text outside the matched names is returned byte for byte.
func Normalize(question string, m *Mapping) string {
	if m == nil || question == "" {
		return question
	}

	for _, col := range m.columns {
		for _, t := range col.Translations {
			if strings.Contains(question, t.Name) {
				question = strings.ReplaceAll(question, t.Name, col.Name)
			}
		}
	}

	return question
}
