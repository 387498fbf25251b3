package extract

import (
	"fmt"
	"strings"
)

// Pager enumerates listing page URLs for one run.
type Pager struct {
	BaseURL   string
	StartPage int
	EndPage   int
	PageParam string
	Enabled   bool
}

// NewPager creates a Pager. The base URL's trailing slash is stripped so
// page suffixes compose the same way regardless of how it was written.
func NewPager(baseURL string, startPage, endPage int, pageParam string, enabled bool) *Pager {
	return &Pager{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		StartPage: startPage,
		EndPage:   endPage,
		PageParam: pageParam,
		Enabled:   enabled,
	}
}

// Len returns the number of URLs the pager will produce.
func (p *Pager) Len() int {
	if !p.Enabled {
		return 1
	}
	if p.EndPage < p.StartPage {
		return 0
	}
	return p.EndPage - p.StartPage + 1
}

// URLs returns the page URLs in ascending page order.
//
// With pagination disabled the sequence is exactly the base URL. An empty
// range (end < start) yields an empty sequence, not an error.
func (p *Pager) URLs() []string {
	if !p.Enabled {
		return []string{p.BaseURL}
	}
	if p.EndPage < p.StartPage {
		return []string{}
	}

	urls := make([]string, 0, p.EndPage-p.StartPage+1)
	for n := p.StartPage; n <= p.EndPage; n++ {
		urls = append(urls, fmt.Sprintf("%s%s%d", p.BaseURL, p.PageParam, n))
	}
	return urls
}
