package model

import "time"

// Article is a forum post as returned by the backend.
type Article struct {
	// ID is the server-assigned article identifier.
	ID int64 `json:"id"`

	// Board is the slug of the board the article was posted to.
	Board string `json:"board"`

	// Title is the article headline.
	Title string `json:"title"`

	// Body is the plain-text article body.
	Body string `json:"body"`

	// Author is the display name of the poster.
	Author string `json:"author"`

	// Likes is the current like count.
	Likes int `json:"likes"`

	// Liked reports whether the signed-in user has liked the article.
	Liked bool `json:"liked"`

	// Bookmarked reports whether the signed-in user has bookmarked
	// the article.
	Bookmarked bool `json:"bookmarked"`

	// CommentCount is the number of comments on the article.
	CommentCount int `json:"commentCount"`

	// CreatedAt is when the article was posted.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the article was last edited.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is a single reply on an article.
type Comment struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"articleId"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArticleDetail bundles an article with its comment thread for the
// detail view.
type ArticleDetail struct {
	Article

	Comments []Comment `json:"comments"`
}
