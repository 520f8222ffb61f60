// Package converter turns institution-specific brokerage CSV exports into
// normalized transactions.
package converter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/folioconv/folioconv/internal/config"
	"github.com/folioconv/folioconv/internal/model"
)

// Result holds the outcome of one conversion.
type Result struct {
	Transactions []model.Transaction
	SourceHeader []string // input columns, for passthrough output
	Skipped      int      // rows dropped by filter rules
	Warnings     []string // non-fatal row problems, reported on stderr
}

// Converter transforms one institution's CSV export.
type Converter interface {
	// Format is the name used with --format.
	Format() string
	// Description is a one-line summary for the formats listing.
	Description() string
	// Sniff reports whether the raw file content looks like this format.
	Sniff(data []byte) bool
	// Convert reads an export and returns normalized transactions.
	Convert(r io.Reader) (*Result, error)
}

// Registry holds named converters.
type Registry struct {
	converters map[string]Converter
	order      []string
}

// NewRegistry creates an empty converter registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

// Register adds a converter. Panics on duplicate format.
func (r *Registry) Register(c Converter) {
	key := strings.ToLower(c.Format())
	if _, ok := r.converters[key]; ok {
		panic("duplicate converter format: " + key)
	}
	r.converters[key] = c
	r.order = append(r.order, key)
}

// Get returns the converter for format, or nil.
func (r *Registry) Get(format string) Converter {
	return r.converters[strings.ToLower(format)]
}

// All returns the registered converters sorted by format name.
func (r *Registry) All() []Converter {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	sort.Strings(keys)

	out := make([]Converter, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.converters[k])
	}
	return out
}

// Detect returns the converter whose Sniff accepts the file content.
// Converters are tried in registration order.
func (r *Registry) Detect(data []byte) (Converter, error) {
	for _, key := range r.order {
		c := r.converters[key]
		if c.Sniff(data) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unrecognized export format; use --format to pick one of: %s", strings.Join(r.order, ", "))
}

// NewDefaultRegistry returns a registry with all built-in converters,
// configured from cfg.
func NewDefaultRegistry(cfg *config.Config) *Registry {
	r := NewRegistry()
	r.Register(&Fidelity{Renames: cfg.Renames})
	r.Register(&MorganStanley{Symbol: cfg.MorganStanley.Symbol})
	r.Register(&VanguardBrokerage{Rules: cfg.BrokerageRules()})
	r.Register(&VanguardRetirement{Renames: cfg.Renames})
	return r
}
