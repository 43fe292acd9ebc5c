// Package template renders Unison profiles from declarative profile configuration.
//
// Output is deterministic for identical input except for the header comment
// block, which carries the generation time and engine version.
package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-syncguard/internal/config"
	appErrors "github.com/mrz1836/go-syncguard/internal/errors"
	"github.com/mrz1836/go-syncguard/internal/logging"
	"github.com/mrz1836/go-syncguard/internal/profile"
	"github.com/mrz1836/go-syncguard/internal/safety"
	"github.com/mrz1836/go-syncguard/internal/strutil"
	"github.com/mrz1836/go-syncguard/internal/version"
)

// headerMarker opens the generated header block.
const headerMarker = "# Unison profile:"

// Generator renders profiles.
type Generator struct {
	requiredIgnores []string
	now             func() time.Time
	logger          *logrus.Entry
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source used for the header.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator that guarantees every value in
// requiredIgnores appears in its output.
func NewGenerator(requiredIgnores []string, opts ...Option) *Generator {
	g := &Generator{
		requiredIgnores: append([]string(nil), requiredIgnores...),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.ComponentLogger(g.logger, logging.ComponentNames.Template)
	return g
}

// Generate returns the complete profile content for name.
func (g *Generator) Generate(name string, p *config.ProfileConfig) (string, error) {
	body, err := g.Body(name, p)
	if err != nil {
		return "", err
	}
	return Header(name, g.now()) + body, nil
}

// Body returns the profile content without the header block.
func (g *Generator) Body(name string, p *config.ProfileConfig) (string, error) {
	if p == nil {
		return "", appErrors.ProfileNotDefinedError(name)
	}

	source := normalizeRoot(p.Source)
	destination := normalizeRoot(p.Destination)
	if source == "" {
		return "", appErrors.EmptyFieldError("source")
	}
	if destination == "" {
		return "", appErrors.EmptyFieldError("destination")
	}

	opts := p.Options
	config.ApplyOptionDefaults(&opts)

	service := safety.Service(p.Service)
	if service == "" {
		service = safety.InferService(destination)
	}

	w := &writer{}

	w.section("Roots")
	w.directive(profile.RootKey, source)
	w.directive(profile.RootKey, destination)

	w.section("Basic behavior")
	w.directive("auto", formatBool(*opts.Auto))
	w.directive("batch", formatBool(*opts.Batch))
	w.directive("prefer", opts.Prefer)
	w.directive("log", formatBool(*opts.Log))
	w.directive("silent", formatBool(*opts.Silent))

	w.section("Conflict handling")
	w.directive("backup", opts.Backup)
	w.directive("backupcurr", opts.Backup)
	w.directive("backupnot", "Name *.tmp")
	w.directive("maxbackups", strconv.Itoa(*opts.MaxBackups))

	ignores := g.ignoreSections(service, p.Ignore)
	for _, category := range ignores {
		w.section("Ignore: " + category.Title)
		for _, value := range category.Values {
			w.directive(profile.IgnoreKey, value)
		}
	}

	w.section("Performance")
	w.directive("retry", strconv.Itoa(*opts.Retry))
	w.directive("confirmbigdel", formatBool(*opts.ConfirmBigDel))
	w.directive("times", formatBool(*opts.Times))
	w.directive("perms", opts.Perms)
	w.directive("maxthreads", strconv.Itoa(*opts.MaxThreads))
	w.directive("fastcheck", formatBool(*opts.FastCheck))

	g.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation:    "generate",
		logging.StandardFields.Profile:      name,
		logging.StandardFields.CloudService: string(service),
	}).Debug("Rendered profile body")

	return w.String(), nil
}

// ignoreSections returns the ignore categories in output order with duplicates
// removed: base catalogue, service extensions, profile extras, then any
// required value still missing.
func (g *Generator) ignoreSections(service safety.Service, extra []string) []IgnoreCategory {
	seen := make(map[string]struct{})
	keep := func(values []string) []string {
		out := make([]string, 0, len(values))
		for _, v := range values {
			normalized := profile.NormalizeIgnore(v)
			if normalized == "" {
				continue
			}
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}
			out = append(out, normalized)
		}
		return out
	}

	var sections []IgnoreCategory
	add := func(title string, values []string) {
		if kept := keep(values); len(kept) > 0 {
			sections = append(sections, IgnoreCategory{Title: title, Values: kept})
		}
	}

	for _, category := range baseCategories {
		add(category.Title, category.Values)
	}
	if service != "" {
		add("Service "+string(service), serviceIgnores[service])
	}
	add("Profile", extra)
	add("Required", g.requiredIgnores)

	return sections
}

// Header renders the comment block that opens every generated profile.
func Header(name string, at time.Time) string {
	var sb strings.Builder
	sb.WriteString(headerMarker + " " + name + "\n")
	sb.WriteString("# Generated by go-syncguard " + version.Get() + " at " + at.UTC().Format(time.RFC3339) + "\n")
	sb.WriteString("# Regenerate with: go-syncguard regenerate " + name + "\n")
	sb.WriteString("\n")
	return sb.String()
}

// StripHeader removes a generated header block so two renderings can be
// compared. Content without the header is returned unchanged.
func StripHeader(content string) string {
	if !strings.HasPrefix(content, headerMarker) {
		return content
	}
	if idx := strings.Index(content, "\n\n"); idx >= 0 {
		return content[idx+2:]
	}
	return ""
}

type writer struct {
	sb      strings.Builder
	started bool
}

func (w *writer) section(title string) {
	if w.started {
		w.sb.WriteString("\n")
	}
	w.started = true
	w.sb.WriteString(profile.CommentChar + " " + title + "\n")
}

func (w *writer) directive(key, value string) {
	w.sb.WriteString(fmt.Sprintf("%s = %s\n", key, value))
}

func (w *writer) String() string {
	return w.sb.String()
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// normalizeRoot cleans local roots; remote roots keep their URI form.
func normalizeRoot(root string) string {
	if strutil.IsRemotePath(root) {
		return strings.TrimSpace(root)
	}
	return strutil.NormalizePath(root)
}
