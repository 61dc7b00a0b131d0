package resolver

import (
	"context"

	"github.com/ralt/archpkg/internal/models"
)

// Source identifies the package source a resolver queries
type Source int

const (
	SourceOfficial Source = iota
	SourceAUR
)

// String returns the string representation of Source
func (s Source) String() string {
	switch s {
	case SourceOfficial:
		return "official"
	case SourceAUR:
		return "aur"
	default:
		return "unknown"
	}
}

// Outcome is what a single resolver produced for a query. A zero Outcome is
// a miss. Err is set only for failures the pipeline must treat as fatal.
type Outcome struct {
	Official  *models.OfficialPackage
	Community *models.AURPackage
	Err       *models.LookupError
}

// Found reports whether the outcome carries a package record
func (o Outcome) Found() bool {
	return o.Official != nil || o.Community != nil
}

// Resolver interface for package sources
type Resolver interface {
	// Resolve looks up the query in this source
	Resolve(ctx context.Context, q models.Query) Outcome

	// GetSource returns the package source this resolver queries
	GetSource() Source
}
