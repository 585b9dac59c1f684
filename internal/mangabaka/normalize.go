package mangabaka

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/comictalker/mangabaka/internal/comicmeta"
	"github.com/comictalker/mangabaka/internal/errors"
)

// NormalizeOptions control provider-specific mapping choices.
type NormalizeOptions struct {
	// UseOriginalPublisher selects Original-type publishers instead of the
	// English-language ones.
	UseOriginalPublisher bool
	// UseSeriesStartAsVolume copies the series start year into the volume
	// field, a convention some libraries use for long-running manga.
	UseSeriesStartAsVolume bool
}

// NormalizeSeries converts a raw provider record into a candidate summary.
// It is pure: no I/O, no shared state. Structurally invalid records (missing
// id or title) yield a ParseError naming the field; absent optional fields
// get their documented defaults.
func NormalizeSeries(raw *Series, opts NormalizeOptions) (comicmeta.Series, error) {
	if err := validateRecord(raw); err != nil {
		return comicmeta.Series{}, err
	}

	return comicmeta.Series{
		ID:             strconv.FormatInt(raw.ID, 10),
		Name:           raw.Title,
		Aliases:        aliases(raw),
		Description:    raw.Description,
		ImageURL:       raw.Cover.URL(),
		Publisher:      selectPublisher(raw.Publishers, opts.UseOriginalPublisher),
		StartYear:      raw.Year,
		Genres:         copyStrings(raw.Genres),
		Format:         raw.Type,
		CountOfIssues:  parseCount(raw.TotalChapters),
		CountOfVolumes: parseCount(raw.FinalVolume),
		Rating:         raw.Rating,
	}, nil
}

// Normalize converts a raw provider record into a full metadata record.
// Same contract as NormalizeSeries.
func Normalize(raw *Series, opts NormalizeOptions) (comicmeta.Metadata, error) {
	if err := validateRecord(raw); err != nil {
		return comicmeta.Metadata{}, err
	}

	md := comicmeta.NewMetadata(comicmeta.Origin{ID: TalkerID, Name: TalkerName})

	id := strconv.FormatInt(raw.ID, 10)
	md.SeriesID = id
	// The provider has no issue-level records, so the series stands in for
	// its single issue.
	md.IssueID = id
	md.Series = raw.Title
	md.CoverURL = raw.Cover.URL()
	md.Aliases = aliases(raw)
	md.Publisher = selectPublisher(raw.Publishers, opts.UseOriginalPublisher)
	md.Description = raw.Description
	md.Year = raw.Year

	for _, author := range raw.Authors {
		md.AddCredit(author, comicmeta.RoleWriter)
	}
	for _, artist := range raw.Artists {
		md.AddCredit(artist, comicmeta.RoleArtist)
	}

	if raw.Type == "manga" {
		md.Manga = true
	}

	md.Genres = copyStrings(raw.Genres)
	md.Tags = copyStrings(raw.Tags)

	if raw.ContentRating != "" {
		md.MaturityRating = capitalizeFirst(raw.ContentRating)
	}

	md.VolumeCount = parseCount(raw.FinalVolume)
	md.IssueCount = parseCount(raw.FinalChapter)
	md.WebLinks = webLinks(raw.Links)

	if raw.Rating > 0 {
		// Provider ratings are on a 0-10 scale; the host expects 0-5.
		md.CriticalRating = raw.Rating / 2
	}

	if opts.UseSeriesStartAsVolume && md.Year > 0 {
		md.Volume = md.Year
	}

	return md, nil
}

func validateRecord(raw *Series) error {
	if raw == nil {
		return errors.NewParseError("", "record is missing")
	}
	if raw.ID <= 0 {
		return errors.NewParseError("id", "missing or non-positive series id")
	}
	if strings.TrimSpace(raw.Title) == "" {
		return errors.NewParseError("title", "missing required value")
	}
	return nil
}

// aliases collects the native title, the romanized title, and every
// secondary title, deduplicated with order preserved. Secondary titles are
// walked by sorted language key so the result is deterministic.
func aliases(raw *Series) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(title string) {
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		out = append(out, title)
	}

	add(raw.NativeTitle)
	add(raw.RomanizedTitle)

	langs := make([]string, 0, len(raw.SecondaryTitles))
	for lang := range raw.SecondaryTitles {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		for _, t := range raw.SecondaryTitles[lang] {
			add(t.Title)
		}
	}

	return out
}

// selectPublisher joins the names of publishers of the wanted type with
// ", ". A nil publisher list yields "".
func selectPublisher(publishers []Publisher, useOriginal bool) string {
	wanted := "English"
	if useOriginal {
		wanted = "Original"
	}

	var names []string
	for _, pub := range publishers {
		if pub.Type == wanted {
			names = append(names, pub.Name)
		}
	}
	return strings.Join(names, ", ")
}

// parseCount reads the provider's stringly-typed count fields ("12",
// "12.5", ""). Unparseable values count as unknown (0).
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// webLinks keeps only links that parse as absolute http(s) URLs.
func webLinks(links []string) []string {
	out := []string{}
	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil || parsed.Host == "" {
			continue
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			continue
		}
		out = append(out, link)
	}
	return out
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
