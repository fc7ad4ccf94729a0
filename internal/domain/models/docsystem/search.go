package docsystem

// SearchEntry is a quick-open row: the document plus its display label.
type SearchEntry struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Icon  *string `json:"icon,omitempty"`
	Label string  `json:"label"` // icon prefix + title
}

// NewSearchEntry builds the quick-open row for doc.
func NewSearchEntry(doc *Document) SearchEntry {
	label := doc.Title
	if doc.Icon != nil && *doc.Icon != "" {
		label = *doc.Icon + " " + doc.Title
	}
	return SearchEntry{
		ID:    doc.ID,
		Title: doc.Title,
		Icon:  doc.Icon,
		Label: label,
	}
}
