package domain

import "time"

// Comment belongs to exactly one post and is immutable once created.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar *string   `json:"userAvatar"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AddCommentRequest carries the comment submission body.
type AddCommentRequest struct {
	Text string `json:"text"`
}
