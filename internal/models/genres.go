package models

// Static TMDB genre id to display name tables. Discovery responses carry
// only genre ids; names are resolved locally so summary rows do not need a
// second upstream call.

var movieGenres = map[int]string{
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
}

var tvGenres = map[int]string{
	10759: "Action & Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	10762: "Kids",
	9648:  "Mystery",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
	37:    "Western",
}

// GenreName resolves a TMDB genre id for the given variant. Unknown ids
// return an empty string and are dropped by ResolveGenres.
func GenreName(mediaType MediaType, genreID int) string {
	switch mediaType {
	case MediaTypeMovie:
		return movieGenres[genreID]
	case MediaTypeTV:
		return tvGenres[genreID]
	}
	return ""
}

// ResolveGenres maps genre ids to (id, name) pairs, preserving order and
// skipping ids absent from the static table.
func ResolveGenres(mediaType MediaType, genreIDs []int) []Genre {
	genres := make([]Genre, 0, len(genreIDs))
	for _, id := range genreIDs {
		name := GenreName(mediaType, id)
		if name == "" {
			continue
		}
		genres = append(genres, Genre{ID: id, Name: name})
	}
	return genres
}
