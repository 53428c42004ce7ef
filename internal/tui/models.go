package tui

type View int

const (
	ViewGallery View = iota
	ViewDetail
	ViewSearch
)

// Focus is the widget receiving keys in the gallery view.
type Focus int

const (
	FocusList Focus = iota
	FocusStart
	FocusEnd
)
