package arxiv

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/scirag-labs/scirag-cli/internal/core/domain"
)

// feed is the Atom document returned by the arXiv query API. Element
// names are matched by local name, so the Atom and OpenSearch
// namespaces need no special handling.
type feed struct {
	XMLName      xml.Name    `xml:"feed"`
	TotalResults int         `xml:"totalResults"`
	Entries      []feedEntry `xml:"entry"`
}

type feedEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []feedAuthor   `xml:"author"`
	Categories []feedCategory `xml:"category"`
	Links      []feedLink     `xml:"link"`
}

type feedAuthor struct {
	Name string `xml:"name"`
}

type feedCategory struct {
	Term string `xml:"term,attr"`
}

type feedLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

func parseFeed(r io.Reader) (*feed, error) {
	var f feed
	if err := xml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode atom feed: %w", err)
	}
	return &f, nil
}

// papers converts feed entries to domain papers. Error entries, which
// the API emits for malformed ids in an id_list, are skipped.
func (f *feed) papers() []domain.Paper {
	out := make([]domain.Paper, 0, len(f.Entries))
	for _, e := range f.Entries {
		if p, ok := entryToPaper(e); ok {
			out = append(out, p)
		}
	}
	return out
}

func entryToPaper(e feedEntry) (domain.Paper, bool) {
	if e.ID == "" || strings.Contains(e.ID, "/api/errors") {
		return domain.Paper{}, false
	}

	id := idFromEntryURL(e.ID)
	if id == "" {
		return domain.Paper{}, false
	}

	p := domain.Paper{
		ID:        id,
		Title:     collapseWhitespace(e.Title),
		Summary:   strings.TrimSpace(e.Summary),
		Published: formatPublished(e.Published),
		SourceURL: e.ID,
	}

	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		switch {
		case l.Rel == "alternate" && l.Href != "":
			p.SourceURL = l.Href
		case l.Title == "pdf" && l.Href != "":
			p.PDFURL = l.Href
		}
	}
	if p.PDFURL == "" {
		p.PDFURL = PDFURL(id)
	}

	return p, true
}

// idFromEntryURL extracts the arXiv id (version suffix included) from
// an entry URL such as http://arxiv.org/abs/2301.00001v2. Old-style
// ids keep their archive prefix (e.g. cond-mat/0703123v1).
func idFromEntryURL(entryURL string) string {
	if idx := strings.Index(entryURL, "/abs/"); idx >= 0 {
		return strings.TrimSpace(entryURL[idx+len("/abs/"):])
	}
	if idx := strings.LastIndex(entryURL, "/"); idx >= 0 {
		return strings.TrimSpace(entryURL[idx+1:])
	}
	return strings.TrimSpace(entryURL)
}

// NormalizeID reduces the accepted id spellings (bare id, arXiv:
// prefix, abs or pdf URL) to the bare id used in id_list queries.
func NormalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ""
	}

	lower := strings.ToLower(id)
	if strings.HasPrefix(lower, "arxiv:") {
		id = id[len("arxiv:"):]
	}
	if strings.Contains(id, "arxiv.org/") {
		for _, marker := range []string{"/abs/", "/pdf/"} {
			if idx := strings.Index(id, marker); idx >= 0 {
				id = id[idx+len(marker):]
				break
			}
		}
	}
	id = strings.TrimSuffix(id, ".pdf")
	return strings.TrimSpace(id)
}

// PDFURL returns the canonical PDF location for an arXiv id.
func PDFURL(id string) string {
	return PDFBaseURL + "/" + id + ".pdf"
}

// formatPublished converts an Atom timestamp to the YYYY-MM-DD form
// carried on papers.
func formatPublished(value string) string {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format("2006-01-02")
	}
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}

// collapseWhitespace joins runs of whitespace into single spaces.
// Feed titles arrive with embedded newlines and indentation.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
