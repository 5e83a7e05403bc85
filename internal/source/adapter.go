// Package source defines the uniform contract the literature stage queries
// against the three bibliographic services (arXiv, OpenAlex, CrossRef). The
// module ships no networked implementation — per spec.md §1 these are
// external collaborators — only the contract, the error taxonomy, and a
// small in-memory adapter used by tests and by callers wiring the contract
// ahead of a real HTTP client.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// Name identifies one of the three bibliographic sources.
type Name string

const (
	ArXiv    Name = "arxiv"
	OpenAlex Name = "openalex"
	CrossRef Name = "crossref"
)

// Errors returned by Adapter implementations (spec §4.1, §7).
var (
	ErrSourceUnavailable   = errors.New("source: unavailable")
	ErrSourceRateLimited   = errors.New("source: rate limited")
	ErrSourceInvalidResponse = errors.New("source: invalid response")
)

// Adapter translates between one bibliographic service's wire format and the
// Paper data model. It does no caching, retry, or ranking — those are the
// literature stage's job.
type Adapter interface {
	Name() Name
	// Search returns at most maxResults papers matching query, each tagged
	// with this adapter's source. dateFrom is nil when unset.
	Search(ctx context.Context, query string, maxResults int, dateFrom *time.Time) ([]model.Paper, error)
	// GetByDOI looks up a single paper by DOI, used by the citation stage
	// for enrichment. Returns (nil, nil) when not found.
	GetByDOI(ctx context.Context, doi string) (*model.Paper, error)
}
