package catalog

import (
	"path"
	"regexp"
	"strings"
)

const (
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultPosterSize   = "w500"
)

var posterSizes = map[string]bool{
	"w92": true, "w154": true, "w185": true, "w342": true,
	"w500": true, "w780": true, "original": true,
}

// posterPathPattern matches the relative paths TMDB hands out, e.g.
// "/kqjL17yufvn9OVLyXYpvtyrFfak.jpg".
var posterPathPattern = regexp.MustCompile(`^/[A-Za-z0-9_\-]+\.(?i:jpe?g|png|webp|gif|svg)$`)

// ValidPosterSize reports whether size is a TMDB poster size.
func ValidPosterSize(size string) bool {
	return posterSizes[size]
}

// ValidPosterPath reports whether p looks like a TMDB image path.
func ValidPosterPath(p string) bool {
	return posterPathPattern.MatchString(p)
}

// PosterURL joins the image base, size and relative poster path. An empty
// path yields "".
func PosterURL(baseURL, size, posterPath string) string {
	posterPath = strings.TrimSpace(posterPath)
	if posterPath == "" {
		return ""
	}
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	if !ValidPosterSize(size) {
		size = DefaultPosterSize
	}
	return strings.TrimRight(baseURL, "/") + path.Join("/", size, posterPath)
}
