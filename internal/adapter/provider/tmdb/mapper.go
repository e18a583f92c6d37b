package tmdb

import (
	"sort"
	"strconv"

	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/provider"
)

func genreNames(gs []genre) []string {
	names := make([]string, 0, len(gs))
	for _, g := range gs {
		names = append(names, g.Name)
	}
	return names
}

func mapMovie(m movieDetails) *provider.NormalizedMedia {
	return &provider.NormalizedMedia{
		Title:      m.Title,
		MediaType:  domain.MediaTypeMovie,
		Provider:   domain.ProviderTMDB,
		ExternalID: strconv.Itoa(m.ID),
		Metadata: domain.Metadata{
			"imdb_id":           m.IMDbID,
			"original_title":    m.OriginalTitle,
			"original_language": m.OriginalLanguage,
			"overview":          m.Overview,
			"tagline":           m.Tagline,
			"status":            m.Status,
			"release_date":      m.ReleaseDate,
			"runtime":           m.Runtime,
			"genres":            genreNames(m.Genres),
			"poster_path":       m.PosterPath,
			"backdrop_path":     m.BackdropPath,
			"popularity":        m.Popularity,
			"vote_average":      m.VoteAverage,
			"vote_count":        m.VoteCount,
			"adult":             m.Adult,
		},
	}
}

func mapTV(t tvDetails) *provider.NormalizedMedia {
	runTime := t.EpisodeRunTime
	if runTime == nil {
		runTime = []int{}
	}
	return &provider.NormalizedMedia{
		Title:      t.Name,
		MediaType:  domain.MediaTypeTV,
		Provider:   domain.ProviderTMDB,
		ExternalID: strconv.Itoa(t.ID),
		Metadata: domain.Metadata{
			"original_name":      t.OriginalName,
			"original_language":  t.OriginalLanguage,
			"overview":           t.Overview,
			"tagline":            t.Tagline,
			"status":             t.Status,
			"first_air_date":     t.FirstAirDate,
			"last_air_date":      t.LastAirDate,
			"number_of_seasons":  t.NumberOfSeasons,
			"number_of_episodes": t.NumberOfEpisodes,
			"episode_run_time":   runTime,
			"genres":             genreNames(t.Genres),
			"poster_path":        t.PosterPath,
			"backdrop_path":      t.BackdropPath,
			"popularity":         t.Popularity,
			"vote_average":       t.VoteAverage,
			"vote_count":         t.VoteCount,
			"adult":              t.Adult,
		},
	}
}

func mapMovieHit(h movieHit) provider.SearchResult {
	return provider.SearchResult{
		Title:      h.Title,
		MediaType:  domain.MediaTypeMovie,
		Provider:   domain.ProviderTMDB,
		ExternalID: strconv.Itoa(h.ID),
		Popularity: h.Popularity,
		Metadata: domain.Metadata{
			"adult":             h.Adult,
			"backdrop_path":     h.BackdropPath,
			"genre_ids":         h.GenreIDs,
			"original_language": h.OriginalLanguage,
			"original_title":    h.OriginalTitle,
			"overview":          h.Overview,
			"popularity":        h.Popularity,
			"poster_path":       h.PosterPath,
			"release_date":      h.ReleaseDate,
			"video":             h.Video,
			"vote_average":      h.VoteAverage,
			"vote_count":        h.VoteCount,
		},
	}
}

func mapTVHit(h tvHit) provider.SearchResult {
	return provider.SearchResult{
		Title:      h.Name,
		MediaType:  domain.MediaTypeTV,
		Provider:   domain.ProviderTMDB,
		ExternalID: strconv.Itoa(h.ID),
		Popularity: h.Popularity,
		Metadata: domain.Metadata{
			"adult":             h.Adult,
			"backdrop_path":     h.BackdropPath,
			"genre_ids":         h.GenreIDs,
			"origin_country":    h.OriginCountry,
			"original_language": h.OriginalLanguage,
			"original_name":     h.OriginalName,
			"overview":          h.Overview,
			"popularity":        h.Popularity,
			"poster_path":       h.PosterPath,
			"first_air_date":    h.FirstAirDate,
			"vote_average":      h.VoteAverage,
			"vote_count":        h.VoteCount,
		},
	}
}

// byPopularity orders results most popular first, keeping provider order on ties.
func byPopularity(results []provider.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Popularity > results[j].Popularity
	})
}
