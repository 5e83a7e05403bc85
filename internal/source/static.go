package source

import (
	"context"
	"strings"
	"time"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// Static is a fixed-result-set Adapter: it returns a configured slice of
// papers filtered by a simple substring match on query, ignoring maxResults
// only to truncate. It exists for tests and for callers that want to wire
// the Adapter contract before a real HTTP client is available.
type Static struct {
	name   Name
	papers []model.Paper
	err    error
}

// NewStatic builds a Static adapter serving papers, tagged with name.
func NewStatic(name Name, papers []model.Paper) *Static {
	tagged := make([]model.Paper, len(papers))
	copy(tagged, papers)
	for i := range tagged {
		tagged[i].ExplicitSource = model.Source(name)
	}
	return &Static{name: name, papers: tagged}
}

// NewFailingStatic builds a Static adapter whose Search always returns err.
func NewFailingStatic(name Name, err error) *Static {
	return &Static{name: name, err: err}
}

func (s *Static) Name() Name { return s.name }

func (s *Static) Search(ctx context.Context, query string, maxResults int, dateFrom *time.Time) ([]model.Paper, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.Paper
	for _, p := range s.papers {
		if q != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Abstract), q) {
			continue
		}
		if dateFrom != nil && p.PublishedDate != nil && p.PublishedDate.Before(*dateFrom) {
			continue
		}
		out = append(out, p)
		if len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

func (s *Static) GetByDOI(ctx context.Context, doi string) (*model.Paper, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.papers {
		if strings.EqualFold(p.DOI, doi) {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}
