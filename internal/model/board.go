package model

// Board is a topic area articles are posted under.
type Board struct {
	// Slug is the URL-safe board identifier.
	Slug string `json:"slug"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is a short summary of the board's topic.
	Description string `json:"description"`

	// Followed reports whether the signed-in user follows this board.
	Followed bool `json:"followed"`

	// ArticleCount is the number of articles posted to the board.
	ArticleCount int `json:"articleCount"`
}
