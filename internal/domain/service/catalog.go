package service

import (
	"context"

	"cinevault/internal/domain/entity"
)

// MediaSummary is the compact representation of a title used in lists
// (search pages, discover pages, favorites hydration).
type MediaSummary struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type,omitempty"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int64 `json:"genre_ids,omitempty"`
}

// MediaPage is one page of summaries, mirroring the provider's pagination.
type MediaPage struct {
	Page         int            `json:"page"`
	Results      []MediaSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// Genre is a single genre tag attached to a title.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MediaDetail is the full record for a single movie or TV show.
type MediaDetail struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	Overview         string  `json:"overview"`
	Tagline          string  `json:"tagline"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	Runtime          int     `json:"runtime,omitempty"`
	NumberOfSeasons  int     `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int     `json:"number_of_episodes,omitempty"`
	Status           string  `json:"status"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Genres           []Genre `json:"genres"`
	Homepage         string  `json:"homepage"`
	OriginalLanguage string  `json:"original_language"`
}

// CastMember is one acting credit on a title.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is one production credit on a title.
type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits groups the cast and crew of a title.
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Image is a single poster or backdrop asset.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	VoteAverage float64 `json:"vote_average"`
}

// ImageCollection groups the image assets of a title.
type ImageCollection struct {
	ID        int64   `json:"id"`
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
}

// Video is one trailer, teaser or clip attached to a title.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoCollection groups the videos of a title.
type VideoCollection struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

// Review is one user review of a title on the provider.
type Review struct {
	ID        string  `json:"id"`
	Author    string  `json:"author"`
	Content   string  `json:"content"`
	CreatedAt string  `json:"created_at"`
	Rating    float64 `json:"rating,omitempty"`
	URL       string  `json:"url"`
}

// ReviewPage is one page of reviews.
type ReviewPage struct {
	ID           int64    `json:"id"`
	Page         int      `json:"page"`
	Results      []Review `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// DiscoverFilter narrows a discover query. Zero values mean "no constraint".
type DiscoverFilter struct {
	Page        int
	SortBy      string
	WithGenres  string
	Year        int
	MinVoteAvg  float64
	MinVotes    int
	ReleaseGTE  string
	ReleaseLTE  string
	WithKeyword string
}

// MediaCatalog defines the read-only interface to the external metadata provider.
// Implementations are responsible for authentication, rate limiting and mapping
// provider 404s to domain errors.
type MediaCatalog interface {
	// SearchMulti queries movies, TV shows and people in one call.
	SearchMulti(ctx context.Context, query string, page int) (*MediaPage, error)

	// GetDetail fetches the full record for one title of the given kind.
	GetDetail(ctx context.Context, kind entity.MediaKind, id int64) (*MediaDetail, error)

	// DiscoverMovies lists movies matching the filter.
	DiscoverMovies(ctx context.Context, filter DiscoverFilter) (*MediaPage, error)

	// Trending lists titles trending over the given window ("day" or "week").
	Trending(ctx context.Context, kind entity.MediaKind, window string, page int) (*MediaPage, error)

	// GetCredits fetches cast and crew for one title.
	GetCredits(ctx context.Context, kind entity.MediaKind, id int64) (*Credits, error)

	// GetImages fetches poster and backdrop assets for one title.
	GetImages(ctx context.Context, kind entity.MediaKind, id int64) (*ImageCollection, error)

	// GetVideos fetches trailers and clips for one title.
	GetVideos(ctx context.Context, kind entity.MediaKind, id int64) (*VideoCollection, error)

	// GetReviews fetches one page of user reviews for one title.
	GetReviews(ctx context.Context, kind entity.MediaKind, id int64, page int) (*ReviewPage, error)

	// GetSimilar lists titles similar to the given one.
	GetSimilar(ctx context.Context, kind entity.MediaKind, id int64, page int) (*MediaPage, error)

	// GetRecommendations lists titles recommended from the given one.
	GetRecommendations(ctx context.Context, kind entity.MediaKind, id int64, page int) (*MediaPage, error)
}
