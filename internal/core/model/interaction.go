package model

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Operation string
}

// SortField selects the ordering used by the live view and reports
type SortField int

const (
	SortByDuration SortField = iota
	SortByLastUsed
)

func (f SortField) String() string {
	if f == SortByLastUsed {
		return "last-used"
	}
	return "duration"
}

// ParseSortField parses "duration" or "last-used"
func ParseSortField(s string) (SortField, bool) {
	switch s {
	case "duration", "time", "":
		return SortByDuration, true
	case "last-used", "lastused", "recent":
		return SortByLastUsed, true
	}
	return SortByDuration, false
}

// InteractionState represents the current UI interaction state
type InteractionState struct {
	IsPaused      bool
	ShowHelp      bool
	SortField     SortField
	StatusMessage string // Status message to display
}
