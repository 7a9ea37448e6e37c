package domain

import "strings"

// Paper is a literature-search result.
type Paper struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	URL     string   `json:"url"`
	PDFURL  string   `json:"pdf_url"`
	Authors []string `json:"authors"`
}

// Link returns the PDF link when known, else the abstract page.
func (p Paper) Link() string {
	if p.PDFURL != "" {
		return p.PDFURL
	}
	return p.URL
}

// AuthorList joins the author names for display.
func (p Paper) AuthorList() string {
	return strings.Join(p.Authors, ", ")
}
