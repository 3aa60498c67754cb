package model

import "time"

// Comment belongs to exactly one of a video or a tweet.
type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	VideoID    *string   `json:"videoId,omitempty"`
	TweetID    *string   `json:"tweetId,omitempty"`
	OwnerID    string    `json:"-"`
	Owner      *Owner    `json:"owner,omitempty"`
	LikesCount int64     `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Tweet struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	OwnerID    string    `json:"-"`
	Owner      *Owner    `json:"owner,omitempty"`
	LikesCount int64     `json:"likesCount"`
	IsLiked    bool      `json:"isLiked"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ContentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"-"`
	Owner       *Owner    `json:"owner,omitempty"`
	VideoIDs    []string  `json:"videoIds"`
	Videos      []Video   `json:"videos,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PlaylistRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type PlaylistUpdateRequest struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}
