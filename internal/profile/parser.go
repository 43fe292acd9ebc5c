package profile

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ini/ini"

	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
)

// Document is the structured view of a profile file.
type Document struct {
	Name     string              `json:"name"`
	Path     string              `json:"path,omitempty"`
	Roots    []string            `json:"roots"`
	Ignores  []string            `json:"ignores"`
	Includes []string            `json:"includes,omitempty"`
	Options  map[string][]string `json:"options"`
	Unknown  []string            `json:"unknown,omitempty"`
}

// Source returns the first root, or "".
func (d *Document) Source() string {
	if len(d.Roots) > 0 {
		return d.Roots[0]
	}
	return ""
}

// Destination returns the second root, or "".
func (d *Document) Destination() string {
	if len(d.Roots) > 1 {
		return d.Roots[1]
	}
	return ""
}

// Option returns the last value of key, or "".
func (d *Document) Option(key string) string {
	values := d.Options[key]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// loadOptions keeps repeated keys, accepts bare keys such as "include x", and
// never treats '#' inside a value as a comment.
//
//nolint:gochecknoglobals // read-only parser configuration
var loadOptions = ini.LoadOptions{
	AllowShadows:            true,
	AllowBooleanKeys:        true,
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
	SkipUnrecognizableLines: true,
	IgnoreContinuation:      true,
	KeyValueDelimiters:      "=",
}

// Parse reads profile content. Directives in the whitelist are collected by
// key in declaration order; anything else lands in Unknown.
func Parse(name string, data []byte) (*Document, error) {
	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", name, err)
	}

	doc := &Document{
		Name:    name,
		Roots:   []string{},
		Ignores: []string{},
		Options: make(map[string][]string),
	}

	for _, section := range file.Sections() {
		if section.Name() != ini.DefaultSection {
			doc.Unknown = append(doc.Unknown, "["+section.Name()+"]")
		}
		for _, key := range section.Keys() {
			doc.add(key)
		}
	}

	return doc, nil
}

func (d *Document) add(key *ini.Key) {
	name := strings.TrimSpace(key.Name())

	// bare "include common" arrives as a boolean key
	if bareKey, value, ok := SplitLine(name); ok && (bareKey == IncludeKey || bareKey == SourceKey) {
		d.Includes = append(d.Includes, value)
		return
	}

	if !IsDirective(name) {
		d.Unknown = append(d.Unknown, name)
		return
	}

	values := key.ValueWithShadows()
	switch name {
	case RootKey:
		d.Roots = append(d.Roots, values...)
	case IgnoreKey:
		d.Ignores = append(d.Ignores, values...)
	case IncludeKey, SourceKey:
		d.Includes = append(d.Includes, values...)
	default:
		d.Options[name] = append(d.Options[name], values...)
	}
}

// ParseFile reads and parses the profile at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- profile paths come from the unison directory
	if err != nil {
		return nil, appErrors.FileReadError(path, err)
	}

	doc, err := Parse(NameFromPath(path), data)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}
