package content

import "strings"

type Publication struct {
	Title   string `toml:"title"`
	Authors string `toml:"authors"`
	Venue   string `toml:"venue"`
	ID      string `toml:"id"`
	Link    string `toml:"link"`
	Type    string `toml:"type"`
}

// Publication categories. Other is assigned but never listed.
const (
	Journal    = "Journal"
	Conference = "Conference"
	Preprint   = "Preprint"
	Patent     = "Patent"
	Other      = "Other"
)

// PublicationTabs lists the publication tabs in display order
var PublicationTabs = []string{Journal, Conference, Preprint, Patent}

// Category classifies the publication by its type label. Patents win over
// journals, journals over conferences, conferences over preprints.
func (p Publication) Category() string {
	switch t := p.Type; {
	case strings.Contains(t, "PATENT"):
		return Patent
	case strings.Contains(t, "JOURNAL"):
		return Journal
	case strings.Contains(t, "CONFERENCE"):
		return Conference
	case strings.Contains(t, "PREPRINT"):
		return Preprint
	}
	return Other
}

// Href is the publication link, "#" when there is none
func (p Publication) Href() string {
	if p.Link == "" {
		return "#"
	}
	return p.Link
}

// IsTab reports whether category is one of PublicationTabs
func IsTab(category string) bool {
	for _, c := range PublicationTabs {
		if c == category {
			return true
		}
	}
	return false
}

// ByCategory returns the publications in category, keeping their order
func ByCategory(pubs []Publication, category string) []Publication {
	var out []Publication
	for _, p := range pubs {
		if p.Category() == category {
			out = append(out, p)
		}
	}
	return out
}
