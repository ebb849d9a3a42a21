package listing

import (
	"time"
)

// Entry is the view of a single directory entry handed to the index template.
type Entry struct {
	// Name is the raw filename. Templates must let html/template escape it.
	Name string
	// DisplayName is Name with a trailing "/" for directories.
	DisplayName string
	IsDir       bool
	Size        uint64
	// Href is the percent-encoded link target, with a trailing "/" for
	// directories.
	Href string
	// Datetime is nil when the modification time isn't available.
	Datetime *time.Time
}

// Index is the model the index template is rendered with.
type Index struct {
	// Path is the directory being listed, always ending with "/".
	Path string
	// Entries are in the order the filesystem returned them.
	Entries []Entry
	// MaybeTruncated is set when the number of entries reached the limit, so
	// the directory may contain more.
	MaybeTruncated bool
}
