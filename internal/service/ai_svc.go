package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mathieu-neron/vixtube/internal/ai"
	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
)

const (
	chatSystemPrompt     = "You are ViX AI, an intelligent SaaS assistant. Be natural, human-like, and conversational."
	overviewSystemPrompt = "You are an expert YouTube video summarizer. Write engaging, human-like video overviews. Keep it natural and professional."
	curatorSystemPrompt  = "You are a personalized video curator."
	tweetSystemPrompt    = "You are a social media expert. Write catchy tweets under 280 characters."
	improveSystemPrompt  = "Improve the engagement of this tweet while keeping it under 280 characters."
	titlesSystemPrompt   = "You are a YouTube SEO strategist. Provide only the titles, one per line."
)

// AIService builds prompts for the assistant endpoints.
type AIService struct {
	gen    ai.Generator
	videos VideoStore
	log    zerolog.Logger
}

func NewAIService(gen ai.Generator, videos VideoStore, log zerolog.Logger) *AIService {
	return &AIService{gen: gen, videos: videos, log: log.With().Str("component", "ai").Logger()}
}

func (s *AIService) Chat(ctx context.Context, message string) (*model.AIReply, error) {
	return s.reply(ctx, ai.Prompt{System: chatSystemPrompt, User: message})
}

func (s *AIService) VideoOverview(ctx context.Context, videoID string) (*model.AIReply, error) {
	v, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	channel := ""
	if v.Owner != nil {
		channel = v.Owner.Username
	}
	user := fmt.Sprintf(`Generate an engaging overview for:

Title: %s
Description: %s
Duration: %.1f minutes
Channel: %s

Write 1-2 paragraphs.`, v.Title, v.Description, v.Duration/60, channel)
	return s.reply(ctx, ai.Prompt{System: overviewSystemPrompt, User: user})
}

func (s *AIService) Recommendations(ctx context.Context, interests []string) (*model.AIReply, error) {
	user := fmt.Sprintf(`User recently watched:
%s

Analyze patterns and suggest 5 highly personalized video topics.
Do not ask questions.
Be confident.`, strings.Join(interests, ", "))
	return s.reply(ctx, ai.Prompt{System: curatorSystemPrompt, User: user})
}

func (s *AIService) WriteTweet(ctx context.Context, videoTitle, extra string) (*model.AIReply, error) {
	user := fmt.Sprintf("Write a viral tweet for a video titled: %q. Context: %s", videoTitle, extra)
	return s.reply(ctx, ai.Prompt{System: tweetSystemPrompt, User: user})
}

func (s *AIService) ImproveTweet(ctx context.Context, tweet string) (*model.AIReply, error) {
	return s.reply(ctx, ai.Prompt{System: improveSystemPrompt, User: "Tweet: " + tweet})
}

// Titles returns one title per non-empty line of the completion.
func (s *AIService) Titles(ctx context.Context, topic string) (*model.AIReply, error) {
	raw, err := s.generate(ctx, ai.Prompt{
		System: titlesSystemPrompt,
		User:   fmt.Sprintf("Generate 5 clickable YouTube titles about: %s. No numbers, no bullets.", topic),
	})
	if err != nil {
		return nil, err
	}
	return &model.AIReply{Titles: ParseTitles(raw), Source: s.gen.Name()}, nil
}

// ParseTitles splits a completion into lines, dropping blanks and headings
// that start with "Title".
func ParseTitles(raw string) []string {
	titles := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Title") {
			continue
		}
		titles = append(titles, line)
	}
	return titles
}

func (s *AIService) reply(ctx context.Context, p ai.Prompt) (*model.AIReply, error) {
	out, err := s.generate(ctx, p)
	if err != nil {
		return nil, err
	}
	return &model.AIReply{Reply: out, Source: s.gen.Name()}, nil
}

func (s *AIService) generate(ctx context.Context, p ai.Prompt) (string, error) {
	out, err := s.gen.Generate(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Str("provider", s.gen.Name()).Msg("ai generation failed")
		return "", apperror.Wrap(apperror.Unavailable, err, "AI service is temporarily unavailable")
	}
	return out, nil
}
