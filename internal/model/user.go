package model

import "time"

// User is a registered account. Every user is also a channel that others can
// subscribe to.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"-"`
}

// Owner is the public subset of a user embedded in other responses.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// ChannelProfile is the API response for channel lookups.
type ChannelProfile struct {
	User
	SubscribersCount          int64 `json:"subscribersCount"`
	ChannelsSubscribedToCount int64 `json:"channelsSubscribedToCount"`
	IsSubscribed              bool  `json:"isSubscribed"`
}

// StatsResponse is the API response for global statistics.
type StatsResponse struct {
	TotalUsers     int64            `json:"totalUsers"`
	TotalVideos    int64            `json:"totalVideos"`
	TotalComments  int64            `json:"totalComments"`
	TotalTweets    int64            `json:"totalTweets"`
	TotalPlaylists int64            `json:"totalPlaylists"`
	Reactions      map[string]int64 `json:"reactions"`
	ActiveUsers24h int64            `json:"activeUsers24h"`
}

// SearchResponse holds matches for the search endpoint.
type SearchResponse struct {
	Videos []Video `json:"videos"`
	Users  []Owner `json:"users"`
}
