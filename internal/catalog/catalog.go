package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/agbru/squash/internal/logging"
)

// AutoID is the sentinel format identifier meaning "let the service decide",
// which in practice preserves the original file format.
const AutoID = ""

// DefaultFetchTimeout bounds the one catalog request made at start-up.
const DefaultFetchTimeout = 10 * time.Second

// FormatDescriptor describes one selectable format. Descriptors are values;
// a loaded catalog never changes.
type FormatDescriptor struct {
	ID          string
	DisplayName string
	Description string
	Icon        string
}

// IsAuto reports whether d is the auto sentinel.
func (d FormatDescriptor) IsAuto() bool { return d.ID == AutoID }

// Label is the short form used in prompts and completions.
func (d FormatDescriptor) Label() string {
	if d.IsAuto() {
		return "auto"
	}
	return d.ID
}

// metadata is keyed by format identifier. Its order is the order of the
// default catalog.
var metadata = []FormatDescriptor{
	{ID: AutoID, DisplayName: "Auto Select", Description: "Maintain original file format (e.g., PDF stays as PDF)", Icon: "🤖"},
	{ID: "pdf", DisplayName: "PDF Optimize", Description: "Lossless PDF compression while maintaining quality", Icon: "📄"},
	{ID: "zip", DisplayName: "ZIP", Description: "Good balance of compression ratio and compatibility", Icon: "📦"},
}

const (
	unknownDescription = "Compression format"
	unknownIcon        = "📁"
)

// Describe returns the descriptor for id, synthesising one for identifiers
// missing from the metadata table.
func Describe(id string) FormatDescriptor {
	for _, d := range metadata {
		if d.ID == id {
			return d
		}
	}
	return FormatDescriptor{
		ID:          id,
		DisplayName: strings.ToUpper(id),
		Description: unknownDescription,
		Icon:        unknownIcon,
	}
}

// Fetcher lists the format identifiers the compression service supports.
type Fetcher interface {
	Formats(ctx context.Context) ([]string, error)
}

// Catalog is an immutable, ordered list of format descriptors that always
// starts with the auto sentinel.
type Catalog struct {
	formats  []FormatDescriptor
	fallback bool
}

// Default returns the built-in catalog used when the service cannot be asked.
func Default() *Catalog {
	formats := make([]FormatDescriptor, len(metadata))
	copy(formats, metadata)
	return &Catalog{formats: formats, fallback: true}
}

// FromIDs builds a catalog from identifiers as returned by the service.
// The auto sentinel is prepended; empty and repeated identifiers are dropped.
func FromIDs(ids []string) *Catalog {
	formats := []FormatDescriptor{Describe(AutoID)}
	seen := map[string]bool{AutoID: true}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		formats = append(formats, Describe(id))
	}
	return &Catalog{formats: formats}
}

// Observer is told where a loaded catalog came from.
type Observer interface {
	CatalogLoaded(fallback bool)
}

type loadConfig struct {
	timeout  time.Duration
	logger   logging.Logger
	observer Observer
}

// Option configures Load.
type Option func(*loadConfig)

// WithTimeout bounds the fetch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *loadConfig) { c.timeout = d }
}

// WithLogger sets the logger used to record a fallback.
func WithLogger(l logging.Logger) Option {
	return func(c *loadConfig) { c.logger = l }
}

// WithObserver registers an observer, typically the metrics recorder.
func WithObserver(o Observer) Option {
	return func(c *loadConfig) { c.observer = o }
}

// Load asks f for the supported formats exactly once. Any failure yields
// Default(); Load never returns an error and never retries.
func Load(ctx context.Context, f Fetcher, opts ...Option) *Catalog {
	cfg := loadConfig{timeout: DefaultFetchTimeout, logger: logging.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	var c *Catalog
	ids, err := f.Formats(ctx)
	if err != nil {
		cfg.logger.Warn("format list unavailable, using default catalog", logging.Err(err))
		c = Default()
	} else {
		c = FromIDs(ids)
		cfg.logger.Debug("format list loaded", logging.Int("formats", len(ids)))
	}

	if cfg.observer != nil {
		cfg.observer.CatalogLoaded(c.fallback)
	}
	return c
}

// Formats returns a copy of the descriptors in display order.
func (c *Catalog) Formats() []FormatDescriptor {
	out := make([]FormatDescriptor, len(c.formats))
	copy(out, c.formats)
	return out
}

// Len returns the number of formats, auto included.
func (c *Catalog) Len() int { return len(c.formats) }

// At returns the descriptor at index i.
func (c *Catalog) At(i int) FormatDescriptor { return c.formats[i] }

// Lookup finds a descriptor by identifier.
func (c *Catalog) Lookup(id string) (FormatDescriptor, bool) {
	i := c.IndexOf(id)
	if i < 0 {
		return FormatDescriptor{}, false
	}
	return c.formats[i], true
}

// IndexOf returns the position of id, or -1.
func (c *Catalog) IndexOf(id string) int {
	for i, d := range c.formats {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the labels of every format, "auto" for the sentinel.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.formats))
	for i, d := range c.formats {
		ids[i] = d.Label()
	}
	return ids
}

// FromFallback reports whether this is the built-in default catalog.
func (c *Catalog) FromFallback() bool { return c.fallback }

// ParseID maps user input to a format identifier: "auto" and the empty
// string both select the sentinel, matching is case-insensitive.
func ParseID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "auto" {
		return AutoID
	}
	return s
}
