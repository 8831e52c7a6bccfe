package responder

import "regexp"

// posterLinePattern matches "Poster Path: /abc.jpg" with optional list
// markers or markdown emphasis around the label.
var posterLinePattern = regexp.MustCompile(`(?i)poster[ _]path\**\s*:\**\s*(/[A-Za-z0-9_\-]+\.[A-Za-z]{3,4})`)

// ExtractPosterPaths returns the poster paths quoted in a reply, in order
// of appearance and without duplicates.
func ExtractPosterPaths(body string) []string {
	paths := []string{}
	seen := map[string]bool{}
	for _, m := range posterLinePattern.FindAllStringSubmatch(body, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		paths = append(paths, m[1])
	}
	return paths
}
