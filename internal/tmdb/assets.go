package tmdb

import "strings"

// DefaultImageBaseURL is the public image CDN root.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

// DefaultImageSize is used when no size token is given.
const DefaultImageSize = "w500"

// BuildAssetURL joins base, size and path. A nil or empty path yields nil.
func BuildAssetURL(base string, path *string, size string) *string {
	if path == nil || *path == "" {
		return nil
	}
	if size == "" {
		size = DefaultImageSize
	}
	u := strings.TrimRight(base, "/") + "/" + size + *path
	return &u
}
