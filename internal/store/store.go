// Package store defines the persistent-store contract (spec §6) and ships an
// in-memory implementation for tests and for callers that have not yet
// wired a production database — a real persistence engine is out of scope
// per spec.md §1.
package store

import (
	"sort"
	"sync"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// SortBy selects the ordering for SearchPapers.
type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByDate      SortBy = "date"
	SortByCitations SortBy = "citations"
)

// Stats summarizes the store's contents (spec §6 get_stats).
type Stats struct {
	Papers, Notes, Themes, Citations int
}

// Store is the outbound persistence contract every stage writes through:
// one transaction per logical operation (one paper, one theme, one
// citation), thread-safe, with atomic single-record writes.
type Store interface {
	SavePaper(p model.Paper) error
	GetPaper(id string) (*model.Paper, error)
	SearchPapers(query string, limit int, sortBy SortBy) ([]model.Paper, error)
	GetAllPapers() ([]model.Paper, error)

	SaveNote(n model.ResearchNote) error
	GetNotesForPaper(paperID string) ([]model.ResearchNote, error)
	GetAllNotes() ([]model.ResearchNote, error)

	SaveTheme(t model.ResearchTheme) error
	GetAllThemes() ([]model.ResearchTheme, error)

	SaveCitation(c model.Citation) error
	GetAllCitations() ([]model.Citation, error)

	GetStats() (Stats, error)
}

// Memory is a mutex-guarded in-memory Store.
type Memory struct {
	mu        sync.Mutex
	papers    map[string]model.Paper
	notes     map[string]model.ResearchNote
	themes    map[string]model.ResearchTheme
	citations map[string]model.Citation
}

// NewMemory builds an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		papers:    map[string]model.Paper{},
		notes:     map[string]model.ResearchNote{},
		themes:    map[string]model.ResearchTheme{},
		citations: map[string]model.Citation{},
	}
}

func (m *Memory) SavePaper(p model.Paper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.papers[p.ID] = p
	return nil
}

func (m *Memory) GetPaper(id string) (*model.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.papers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) SearchPapers(query string, limit int, sortBy SortBy) ([]model.Paper, error) {
	m.mu.Lock()
	all := make([]model.Paper, 0, len(m.papers))
	for _, p := range m.papers {
		all = append(all, p)
	}
	m.mu.Unlock()

	switch sortBy {
	case SortByDate:
		sort.Slice(all, func(i, j int) bool { return all[i].PublicationYear() > all[j].PublicationYear() })
	case SortByCitations:
		sort.Slice(all, func(i, j int) bool { return all[i].CitationCount > all[j].CitationCount })
	default:
		sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *Memory) GetAllPapers() ([]model.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Paper, 0, len(m.papers))
	for _, p := range m.papers {
		out = append(out, p)
	}
	return out, nil
}

func (m *Memory) SaveNote(n model.ResearchNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[n.ID] = n
	return nil
}

func (m *Memory) GetNotesForPaper(paperID string) ([]model.ResearchNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ResearchNote
	for _, n := range m.notes {
		if n.PaperID == paperID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Memory) GetAllNotes() ([]model.ResearchNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ResearchNote, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n)
	}
	return out, nil
}

func (m *Memory) SaveTheme(t model.ResearchTheme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[t.ID] = t
	return nil
}

func (m *Memory) GetAllThemes() ([]model.ResearchTheme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ResearchTheme, 0, len(m.themes))
	for _, t := range m.themes {
		out = append(out, t)
	}
	return out, nil
}

func (m *Memory) SaveCitation(c model.Citation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.citations[c.ID] = c
	return nil
}

func (m *Memory) GetAllCitations() ([]model.Citation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Citation, 0, len(m.citations))
	for _, c := range m.citations {
		out = append(out, c)
	}
	return out, nil
}

func (m *Memory) GetStats() (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Papers:    len(m.papers),
		Notes:     len(m.notes),
		Themes:    len(m.themes),
		Citations: len(m.citations),
	}, nil
}
