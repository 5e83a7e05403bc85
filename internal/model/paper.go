// Package model defines the data types shared across every stage: Paper,
// ResearchNote, ResearchTheme, and Citation. Papers are created once by the
// literature stage and never mutated afterward; later stages reference them
// by id rather than holding cyclic pointers.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Source identifies which bibliographic service a Paper was found through.
type Source string

const (
	SourceArXiv     Source = "arxiv"
	SourceOpenAlex  Source = "openalex"
	SourceCrossRef  Source = "crossref"
	SourceUnknown   Source = "unknown"
)

var doiPattern = regexp.MustCompile(`^10\.\d{4,}/\S+$`)

// Paper is immutable once ingested by the literature stage.
type Paper struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Authors        []string   `json:"authors"`
	Abstract       string     `json:"abstract"`
	URL            string     `json:"url"`
	PublishedDate  *time.Time `json:"published_date,omitempty"`
	Venue          string     `json:"venue"`
	CitationCount  int        `json:"citation_count"`
	DOI            string     `json:"doi,omitempty"`
	ArxivID        string     `json:"arxiv_id,omitempty"`
	Keywords       []string   `json:"keywords,omitempty"`
	FullText       string     `json:"full_text,omitempty"`
	ExplicitSource Source     `json:"source,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Validate enforces the Paper invariants from spec §3: a non-empty DOI must
// match the canonical prefix form, and citation counts cannot be negative.
func (p *Paper) Validate() error {
	if p.ID == "" {
		return errors.New("model: paper id is required")
	}
	if p.CitationCount < 0 {
		return fmt.Errorf("model: paper %s has negative citation count", p.ID)
	}
	if p.DOI != "" && !doiPattern.MatchString(p.DOI) {
		return fmt.Errorf("model: paper %s has malformed doi %q", p.ID, p.DOI)
	}
	return nil
}

// SourceTag returns the paper's inferred source tag: explicit if set at
// ingestion, otherwise inferred arXiv-id -> DOI-domain -> venue-substring ->
// "unknown", per spec §3.
func (p *Paper) SourceTag() Source {
	if p.ExplicitSource != "" {
		return p.ExplicitSource
	}
	if p.ArxivID != "" {
		return SourceArXiv
	}
	if p.DOI != "" {
		return SourceCrossRef
	}
	venue := strings.ToLower(p.Venue)
	if strings.Contains(venue, "openalex") {
		return SourceOpenAlex
	}
	if strings.Contains(venue, "arxiv") {
		return SourceArXiv
	}
	return SourceUnknown
}

// FirstAuthorLastName returns the last whitespace-separated token of the
// first author's display name, lowercased, or "" if there are no authors.
func (p *Paper) FirstAuthorLastName() string {
	if len(p.Authors) == 0 {
		return ""
	}
	parts := strings.Fields(p.Authors[0])
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(parts[len(parts)-1])
}

// PublicationYear returns the publication year, or 0 if unknown.
func (p *Paper) PublicationYear() int {
	if p.PublishedDate == nil {
		return 0
	}
	return p.PublishedDate.Year()
}

// Content returns the paper's full text if present, otherwise its abstract —
// the content-source rule used by the note stage.
func (p *Paper) Content() string {
	if strings.TrimSpace(p.FullText) != "" {
		return p.FullText
	}
	return p.Abstract
}
