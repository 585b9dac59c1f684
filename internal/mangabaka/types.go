package mangabaka

// Raw shapes for the MangaBaka v1 API. Fields the API documents but this
// package never reads are still modeled so cached payloads round-trip
// completely; unknown extra fields are ignored by the decoder.

// Enum values published by the API.
var (
	// Types lists the series formats; the empty string means "no filter".
	Types = []string{"", "manga", "novel", "manhwa", "manhua", "oel", "other"}
	// Statuses lists the publication statuses.
	Statuses = []string{"cancelled", "completed", "hiatus", "releasing", "unknown", "upcoming"}
	// States lists the record lifecycle states.
	States = []string{"active", "merged", "deleted"}
	// ContentRatings lists the age ratings from mildest to most explicit.
	ContentRatings = []string{"safe", "suggestive", "erotica", "pornographic"}
)

// Record lifecycle states.
const (
	StateActive  = "active"
	StateMerged  = "merged"
	StateDeleted = "deleted"
)

// Envelope is the wrapper every API response arrives in. Status mirrors an
// HTTP status code; a value other than 200 is an error even when the HTTP
// response itself was 200.
type Envelope[T any] struct {
	Status     int         `json:"status"`
	Message    string      `json:"message"`
	Pagination *Pagination `json:"pagination"`
	Data       T           `json:"data"`
}

// Pagination describes the page window of a search response. Next and
// Previous are absolute URLs, empty when there is no such page.
type Pagination struct {
	Count    int    `json:"count"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// CoverImage holds the cover URL variants for a series.
type CoverImage struct {
	Raw     string `json:"raw"`
	Default string `json:"default"`
	Small   string `json:"small"`
}

// URL returns the cover variant to use on a metadata record, preferring the
// default rendition.
func (c CoverImage) URL() string {
	for _, u := range []string{c.Default, c.Raw, c.Small} {
		if u != "" {
			return u
		}
	}
	return ""
}

// ThumbnailURL returns the smallest usable cover variant, for downloads where
// bandwidth matters more than resolution.
func (c CoverImage) ThumbnailURL() string {
	for _, u := range []string{c.Small, c.Default, c.Raw} {
		if u != "" {
			return u
		}
	}
	return ""
}

// SecondaryTitle is one localized alternate title.
type SecondaryTitle struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Publisher is one publisher entry; Type distinguishes "English" from
// "Original" (and others).
type Publisher struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Note string `json:"note"`
}

// SourceRef points at the same series in one of the upstream databases
// MangaBaka aggregates.
type SourceRef struct {
	ID     any     `json:"id"`
	Rating float64 `json:"rating"`
}

// AnimeDates carries the air dates of an adaptation, when one exists.
type AnimeDates struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Relationships links related series by ID.
type Relationships struct {
	MainStory   []int64 `json:"main_story"`
	Adaptation  []int64 `json:"adaptation"`
	Prequel     []int64 `json:"prequel"`
	Sequel      []int64 `json:"sequel"`
	SideStory   []int64 `json:"side_story"`
	SpinOff     []int64 `json:"spin_off"`
	Alternative []int64 `json:"alternative"`
	Other       []int64 `json:"other"`
}

// Series is the raw provider record for one work. Count fields
// (FinalVolume, FinalChapter, TotalChapters) arrive as strings.
type Series struct {
	ID              int64                       `json:"id"`
	State           string                      `json:"state"`
	MergedWith      int64                       `json:"merged_with"`
	Title           string                      `json:"title"`
	NativeTitle     string                      `json:"native_title"`
	RomanizedTitle  string                      `json:"romanized_title"`
	SecondaryTitles map[string][]SecondaryTitle `json:"secondary_titles"`
	Cover           CoverImage                  `json:"cover"`
	Authors         []string                    `json:"authors"`
	Artists         []string                    `json:"artists"`
	Description     string                      `json:"description"`
	Year            int                         `json:"year"`
	Status          string                      `json:"status"`
	IsLicensed      bool                        `json:"is_licensed"`
	HasAnime        bool                        `json:"has_anime"`
	Anime           *AnimeDates                 `json:"anime"`
	ContentRating   string                      `json:"content_rating"`
	Type            string                      `json:"type"`
	Rating          float64                     `json:"rating"`
	FinalVolume     string                      `json:"final_volume"`
	FinalChapter    string                      `json:"final_chapter"`
	TotalChapters   string                      `json:"total_chapters"`
	Links           []string                    `json:"links"`
	Publishers      []Publisher                 `json:"publishers"`
	Genres          []string                    `json:"genres"`
	Tags            []string                    `json:"tags"`
	LastUpdatedAt   string                      `json:"last_updated_at"`
	Relationships   *Relationships              `json:"relationships"`
	Source          map[string]SourceRef        `json:"source"`
}
