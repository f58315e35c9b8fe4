package tmdb

import (
	"fmt"

	"github.com/mwielgos/kinoteka/internal/models"
)

// Title is the unified record every provider shape is normalized into.
// (Type, ID) is the provider-scoped identity: a movie and a TV show may share
// a numeric id.
type Title struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Type        models.MediaType `json:"type"`
	PosterPath  *string          `json:"poster_path"`
	Date        string           `json:"date"` // release date for movies, first air date for TV
	Overview    string           `json:"overview"`
	VoteAverage float64          `json:"vote_average"`
	GenreIDs    []int            `json:"genre_ids,omitempty"`
}

// Page is one page of normalized results plus the provider's reported depth.
type Page struct {
	Results    []Title `json:"results"`
	TotalPages int     `json:"total_pages"`
}

// Genre represents a provider genre. Movie and TV genre ids live in
// independent numbering spaces.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// movieResult is the provider shape for movie list entries
type movieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"` // YYYY-MM-DD
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
}

// tvResult is the provider shape for TV list entries
type tvResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"poster_path"`
	FirstAirDate string  `json:"first_air_date"` // YYYY-MM-DD
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

// multiResult is the provider shape for /search/multi entries. MediaType also
// takes values like "person" which are dropped during normalization.
type multiResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

func (m movieResult) toTitle() Title {
	return Title{
		ID:          m.ID,
		Name:        m.Title,
		Type:        models.MediaTypeMovie,
		PosterPath:  m.PosterPath,
		Date:        m.ReleaseDate,
		Overview:    m.Overview,
		VoteAverage: m.VoteAverage,
		GenreIDs:    m.GenreIDs,
	}
}

func (t tvResult) toTitle() Title {
	return Title{
		ID:          t.ID,
		Name:        t.Name,
		Type:        models.MediaTypeTV,
		PosterPath:  t.PosterPath,
		Date:        t.FirstAirDate,
		Overview:    t.Overview,
		VoteAverage: t.VoteAverage,
		GenreIDs:    t.GenreIDs,
	}
}

// toTitle normalizes a multi-search entry. The second return is false for
// media types outside movie/tv.
func (r multiResult) toTitle() (Title, bool) {
	mediaType := models.MediaType(r.MediaType)
	if !mediaType.Valid() {
		return Title{}, false
	}

	name := r.Title
	if name == "" {
		name = r.Name
	}
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}

	return Title{
		ID:          r.ID,
		Name:        name,
		Type:        mediaType,
		PosterPath:  r.PosterPath,
		Date:        date,
		Overview:    r.Overview,
		VoteAverage: r.VoteAverage,
		GenreIDs:    r.GenreIDs,
	}, true
}

// movieListResponse is the provider envelope for movie list endpoints
type movieListResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// tvListResponse is the provider envelope for TV list endpoints
type tvListResponse struct {
	Page         int        `json:"page"`
	Results      []tvResult `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// multiListResponse is the provider envelope for /search/multi
type multiListResponse struct {
	Page         int           `json:"page"`
	Results      []multiResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// genreListResponse is the provider envelope for genre list endpoints
type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

// MovieDetails represents detailed movie information
type MovieDetails struct {
	ID                  int               `json:"id"`
	Title               string            `json:"title"`
	OriginalTitle       string            `json:"original_title"`
	Overview            string            `json:"overview"`
	Tagline             *string           `json:"tagline"`
	PosterPath          *string           `json:"poster_path"`
	BackdropPath        *string           `json:"backdrop_path"`
	ReleaseDate         string            `json:"release_date"`
	VoteAverage         float64           `json:"vote_average"`
	VoteCount           int               `json:"vote_count"`
	Runtime             *int              `json:"runtime"`
	Status              *string           `json:"status"`
	Homepage            *string           `json:"homepage"`
	IMDBID              *string           `json:"imdb_id"`
	Budget              int64             `json:"budget"`
	Revenue             int64             `json:"revenue"`
	Genres              []Genre           `json:"genres"`
	ProductionCountries []Country         `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage  `json:"spoken_languages"`
}

// TVDetails represents detailed TV show information
type TVDetails struct {
	ID                  int              `json:"id"`
	Name                string           `json:"name"`
	OriginalName        string           `json:"original_name"`
	Overview            string           `json:"overview"`
	Tagline             *string          `json:"tagline"`
	PosterPath          *string          `json:"poster_path"`
	BackdropPath        *string          `json:"backdrop_path"`
	FirstAirDate        string           `json:"first_air_date"`
	LastAirDate         *string          `json:"last_air_date"`
	VoteAverage         float64          `json:"vote_average"`
	VoteCount           int              `json:"vote_count"`
	Status              *string          `json:"status"`
	Homepage            *string          `json:"homepage"`
	NumberOfSeasons     int              `json:"number_of_seasons"`
	NumberOfEpisodes    int              `json:"number_of_episodes"`
	Genres              []Genre          `json:"genres"`
	ProductionCountries []Country        `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage `json:"spoken_languages"`
}

// Country represents a production country
type Country struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// SpokenLanguage represents a spoken language entry
type SpokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// WatchProvider is a single streaming/rental provider listing
type WatchProvider struct {
	ProviderID   int     `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	LogoPath     *string `json:"logo_path"`
}

// WatchProviders groups provider listings for one region
type WatchProviders struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Rent     []WatchProvider `json:"rent,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
}

type watchProvidersResponse struct {
	ID      int                       `json:"id"`
	Results map[string]WatchProviders `json:"results"`
}

// PersonDetails represents detailed person information
type PersonDetails struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	Birthday           *string `json:"birthday"`
	Deathday           *string `json:"deathday"`
	PlaceOfBirth       *string `json:"place_of_birth"`
	KnownForDepartment string  `json:"known_for_department"`
	Homepage           *string `json:"homepage"`
	IMDBID             *string `json:"imdb_id"`
	ProfilePath        *string `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
}

// PersonCredit is one movie a person is credited in as cast
type PersonCredit struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Year        int     `json:"year"`
	Character   string  `json:"character"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
}

type personCreditResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Character   string  `json:"character"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
}

func (r personCreditResult) toCredit() PersonCredit {
	return PersonCredit{
		ID:          r.ID,
		Title:       r.Title,
		PosterPath:  r.PosterPath,
		ReleaseDate: r.ReleaseDate,
		Year:        ExtractYear(r.ReleaseDate),
		Character:   r.Character,
		VoteAverage: r.VoteAverage,
		Popularity:  r.Popularity,
	}
}

type personCreditsResponse struct {
	Cast []personCreditResult `json:"cast"`
}

// ImageSize selects a provider CDN rendition
type ImageSize string

const (
	PosterSmall      ImageSize = "w185"
	PosterMedium     ImageSize = "w342"
	BackdropMedium   ImageSize = "w780"
	BackdropLarge    ImageSize = "w1280"
	ProfileLarge     ImageSize = "h632"
	ImageOriginal    ImageSize = "original"
	imageBaseAddress           = "https://image.tmdb.org/t/p"
)

// ImageURL resolves a provider image path against the CDN. Returns nil for a
// nil path so templates can fall back to a placeholder.
func ImageURL(path *string, size ImageSize) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := fmt.Sprintf("%s/%s%s", imageBaseAddress, size, *path)
	return &u
}
