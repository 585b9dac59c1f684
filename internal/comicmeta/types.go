// Package comicmeta defines the canonical, provider-agnostic metadata records
// returned to the host. Provider packages normalize their raw API shapes into
// these types; nothing provider-specific crosses this boundary.
//
// Required fields are always populated. When a provider omits a value the
// normalizer substitutes the documented default (empty string, zero, or
// "Unknown") so the host never sees a partially-constructed record.
package comicmeta

import "strings"

// Credit roles used when mapping provider author/artist lists.
const (
	RoleWriter = "Writer"
	RoleArtist = "Artist"
)

// UnknownRating is the maturity rating substituted when the provider omits one.
const UnknownRating = "Unknown"

// Origin identifies the talker a record came from.
type Origin struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Credit is one person attached to a comic in a given role.
type Credit struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// Series is a candidate summary for one work, as returned by a search.
// Defaults for omitted provider data: Description/ImageURL/Publisher "" and
// StartYear 0; Aliases and Genres are never nil.
type Series struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Aliases        []string `json:"aliases" yaml:"aliases"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL       string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Publisher      string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	StartYear      int      `json:"start_year,omitempty" yaml:"start_year,omitempty"`
	Genres         []string `json:"genres" yaml:"genres"`
	Format         string   `json:"format,omitempty" yaml:"format,omitempty"`
	CountOfIssues  int      `json:"count_of_issues,omitempty" yaml:"count_of_issues,omitempty"`
	CountOfVolumes int      `json:"count_of_volumes,omitempty" yaml:"count_of_volumes,omitempty"`

	// Rating is the provider-reported popularity score, kept on the summary
	// so candidate ranking can break ties with it.
	Rating float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// Metadata is the full normalized record for one comic.
type Metadata struct {
	Origin         Origin   `json:"origin" yaml:"origin"`
	IssueID        string   `json:"issue_id" yaml:"issue_id"`
	SeriesID       string   `json:"series_id" yaml:"series_id"`
	Series         string   `json:"series" yaml:"series"`
	Aliases        []string `json:"aliases" yaml:"aliases"`
	Publisher      string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Genres         []string `json:"genres" yaml:"genres"`
	Tags           []string `json:"tags" yaml:"tags"`
	WebLinks       []string `json:"web_links" yaml:"web_links"`
	Year           int      `json:"year,omitempty" yaml:"year,omitempty"`
	Volume         int      `json:"volume,omitempty" yaml:"volume,omitempty"`
	CoverURL       string   `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
	CriticalRating float64  `json:"critical_rating,omitempty" yaml:"critical_rating,omitempty"`
	MaturityRating string   `json:"maturity_rating" yaml:"maturity_rating"`
	Manga          bool     `json:"manga" yaml:"manga"`
	VolumeCount    int      `json:"volume_count,omitempty" yaml:"volume_count,omitempty"`
	IssueCount     int      `json:"issue_count,omitempty" yaml:"issue_count,omitempty"`
	Credits        []Credit `json:"credits" yaml:"credits"`
}

// NewMetadata returns a Metadata with every slice field initialized and the
// maturity rating set to its default, so callers can fill in only what the
// provider supplies.
func NewMetadata(origin Origin) Metadata {
	return Metadata{
		Origin:         origin,
		Aliases:        []string{},
		Genres:         []string{},
		Tags:           []string{},
		WebLinks:       []string{},
		MaturityRating: UnknownRating,
		Credits:        []Credit{},
	}
}

// AddCredit appends a credit unless an equivalent one (same name and role,
// case-insensitive) is already present.
func (m *Metadata) AddCredit(name, role string) {
	for _, c := range m.Credits {
		if strings.EqualFold(c.Name, name) && strings.EqualFold(c.Role, role) {
			return
		}
	}
	m.Credits = append(m.Credits, Credit{Name: name, Role: role})
}

// CreditsByRole returns the names credited in the given role, preserving
// insertion order.
func (m *Metadata) CreditsByRole(role string) []string {
	var names []string
	for _, c := range m.Credits {
		if strings.EqualFold(c.Role, role) {
			names = append(names, c.Name)
		}
	}
	return names
}
