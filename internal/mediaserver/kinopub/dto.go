package kinopub

// OAuth responses

type deviceCodeResponse struct {
	Code            string `json:"code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	Interval        int    `json:"interval"`
	ExpiresIn       int    `json:"expires_in"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type oauthErrorResponse struct {
	Error string `json:"error"`
}

// API responses. List endpoints wrap results under "items", detail under "item".

type itemListResponse struct {
	Items []itemDTO `json:"items"`
}

type itemDetailResponse struct {
	Item *itemDTO `json:"item"`
}

type watchingListResponse struct {
	Items []watchingDTO `json:"items"`
}

type bookmarkFoldersResponse struct {
	Items []bookmarkFolderDTO `json:"items"`
}

type bookmarkItemsResponse struct {
	Items []struct {
		ID int `json:"id"`
	} `json:"items"`
}

// itemDTO covers search, detail and category listings. Optional fields are
// pointers so the mapper can apply defaults.
type itemDTO struct {
	ID              int         `json:"id"`
	Title           string      `json:"title"`
	Type            string      `json:"type"`
	Year            *int        `json:"year"`
	Plot            *string     `json:"plot"`
	IMDbRating      *float64    `json:"imdb_rating"`
	KinopoiskRating *float64    `json:"kinopoisk_rating"`
	Genres          []namedDTO  `json:"genres"`
	Countries       []namedDTO  `json:"countries"`
	Seasons         []seasonDTO `json:"seasons"`
}

type namedDTO struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type seasonDTO struct {
	Number   int          `json:"number"`
	Episodes []episodeDTO `json:"episodes"`
}

type episodeDTO struct {
	ID     int     `json:"id"`
	Number int     `json:"number"`
	Title  *string `json:"title"`
}

type watchingDTO struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Total   *int   `json:"total"`
	Watched *int   `json:"watched"`
}

type bookmarkFolderDTO struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
