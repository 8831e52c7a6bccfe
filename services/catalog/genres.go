package catalog

// UnknownGenre labels genre codes missing from the table.
const UnknownGenre = "Unknown"

// genreNames covers both the movie and the TV genre lists. TMDB keeps them
// in separate code spaces; the merged table is shared by both kinds.
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
	10759: "Action & Adventure",
	10762: "Kids",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
}

// GenreName returns the display name for one genre code.
func GenreName(id int) string {
	if name, ok := genreNames[id]; ok {
		return name
	}
	return UnknownGenre
}

// ResolveGenres maps codes to names one-to-one, keeping order and
// duplicates. It never fails.
func ResolveGenres(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, GenreName(id))
	}
	return names
}
