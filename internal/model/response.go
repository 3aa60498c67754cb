package model

// APIResponse is the success envelope shared by every endpoint.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// APIError is the error envelope.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	Success    bool   `json:"success"`
}

// PageResult wraps a page of any listing.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPageResult[T any](items []T, total int64, page, limit int) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageResult[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// AI request bodies.
type (
	ChatRequest struct {
		Message string `json:"message" validate:"required,max=4000"`
	}
	VideoOverviewRequest struct {
		VideoID string `json:"videoId" validate:"required,uuid"`
	}
	RecommendationsRequest struct {
		Interests []string `json:"interests" validate:"required,min=1,max=20,dive,required,max=100"`
	}
	WriteTweetRequest struct {
		VideoTitle string `json:"videoTitle" validate:"required,max=200"`
		Context    string `json:"context" validate:"max=2000"`
	}
	ImproveTweetRequest struct {
		Tweet string `json:"tweet" validate:"required,max=2000"`
	}
	TitlesRequest struct {
		Topic string `json:"topic" validate:"required,max=500"`
	}
)

// AIReply is returned by every AI endpoint.
type AIReply struct {
	Reply  string   `json:"reply,omitempty"`
	Titles []string `json:"titles,omitempty"`
	Source string   `json:"source"`
}
