package model

import "time"

// Video is an uploaded video. Media lives in object storage; only URLs are kept.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	Owner       *Owner    `json:"owner,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VideoDetail is a video together with the caller's view of its reactions.
type VideoDetail struct {
	Video
	LikesCount    int64  `json:"likesCount"`
	DislikesCount int64  `json:"dislikesCount"`
	LikeState     string `json:"likeState"`
	IsSaved       bool   `json:"isSaved"`
}

// WatchedVideo is one entry of a user's watch history.
type WatchedVideo struct {
	Video
	WatchedAt time.Time `json:"watchedAt"`
}

// PublishVideoRequest registers an already uploaded video.
type PublishVideoRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	VideoFile   string  `json:"videoFile" validate:"required,url"`
	Thumbnail   string  `json:"thumbnail" validate:"required,url"`
	Duration    float64 `json:"duration" validate:"gte=0"`
	IsPublished *bool   `json:"isPublished,omitempty"`
}

// UpdateVideoRequest changes video metadata. Empty fields are left unchanged.
type UpdateVideoRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,url"`
}

// VideoQuery filters the public video listing.
type VideoQuery struct {
	Query    string
	SortBy   string
	SortType string
	OwnerID  string
	Page     int
	Limit    int
}

// VideoSortColumns maps accepted sortBy values to columns.
var VideoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"title":     "title",
	"duration":  "duration",
}
