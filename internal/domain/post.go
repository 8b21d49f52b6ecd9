package domain

import (
	"io"
	"time"
)

// Post is a published photo with a title and a place name. Likes hold the
// IDs of users who currently have the post liked; CommentsCount is the
// denormalized comment counter kept in step by every write path.
type Post struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	UserAvatar    *string   `json:"userAvatar"`
	Image         string    `json:"image"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	Likes         []string  `json:"likes"`
	CommentsCount int64     `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreatePostRequest carries the create-post form fields. Latitude and
// longitude are the device position; they are only consulted when the
// location field is left blank.
type CreatePostRequest struct {
	Title     string   `form:"title"`
	Location  string   `form:"location"`
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
}

// Upload is an incoming blob (avatar or post photo).
type Upload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}
