//go:build integration

package repository

import "github.com/mathieu-neron/vixtube/internal/model"

func modelVideo(title string) model.PublishVideoRequest {
	return model.PublishVideoRequest{
		Title:       title,
		Description: "integration fixture",
		VideoFile:   "https://cdn.example.com/v.mp4",
		Thumbnail:   "https://cdn.example.com/t.jpg",
		Duration:    42,
	}
}
