// Package entity contains the core business objects of the project.
package entity

// MediaKind partitions media identifiers into the two catalogs the metadata
// provider distinguishes. Favorites are kept per kind; toggling a movie ID must
// never touch the TV partition and vice versa.
type MediaKind string

const (
	// MediaKindMovie identifies the movie catalog.
	MediaKindMovie MediaKind = "movie"
	// MediaKindTV identifies the TV show catalog.
	MediaKindTV MediaKind = "tv"
)

// String returns the string representation of the MediaKind.
func (k MediaKind) String() string {
	return string(k)
}

// IsValid checks if the MediaKind is a valid value.
func (k MediaKind) IsValid() bool {
	switch k {
	case MediaKindMovie, MediaKindTV:
		return true
	default:
		return false
	}
}
