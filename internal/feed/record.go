package feed

// MediaKind is the kind of media an entry points at.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Record is one raw entry as delivered by the data source. Optional fields
// are empty strings when absent. Records are never modified after decoding.
type Record struct {
	Date           string    `json:"date" yaml:"date"`
	Title          string    `json:"title" yaml:"title"`
	MediaType      MediaKind `json:"media_type" yaml:"media_type"`
	URL            string    `json:"url" yaml:"url"`
	ThumbnailURL   string    `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	Explanation    string    `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	HDURL          string    `json:"hdurl,omitempty" yaml:"hdurl,omitempty"`
	Copyright      string    `json:"copyright,omitempty" yaml:"copyright,omitempty"`
	ServiceVersion string    `json:"service_version,omitempty" yaml:"service_version,omitempty"`
}

// DisplayItem is a Record mapped into the shape the gallery renders.
// An empty Preview means no preview is available.
type DisplayItem struct {
	Date        string    `json:"date" yaml:"date"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Preview     string    `json:"preview,omitempty" yaml:"preview,omitempty"`
	Kind        MediaKind `json:"media_type" yaml:"media_type"`
	PageURL     string    `json:"url,omitempty" yaml:"url,omitempty"`
}

// HasPreview reports whether the item has a resolvable preview source.
func (d DisplayItem) HasPreview() bool {
	return d.Preview != ""
}

// OpenURL returns the best URL to hand to an external viewer.
func (d DisplayItem) OpenURL() string {
	if d.PageURL != "" {
		return d.PageURL
	}
	return d.Preview
}
