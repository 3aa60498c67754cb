package handler_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/vixtube/internal/handler"
	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/reaction"
	"github.com/mathieu-neron/vixtube/internal/reaction/reactiontest"
	"github.com/mathieu-neron/vixtube/internal/service"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Code       string          `json:"code"`
	Success    bool            `json:"success"`
}

type reactionFixture struct {
	app      *fiber.App
	auth     *middleware.Auth
	subjects *reactiontest.Subjects
}

func newReactionFixture(t *testing.T) *reactionFixture {
	t.Helper()
	subjects := reactiontest.NewSubjects()
	ledger := reaction.NewLedger(reactiontest.NewMemoryStore(), subjects)
	svc := service.NewReactionService(ledger, service.NewCacheService("", 0, zerolog.Nop()), zerolog.Nop())
	h := handler.NewReactionHandler(svc)
	auth := middleware.NewAuth("handler-test-secret", nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	private := auth.Required()
	app.Post("/likes/toggle/v/:videoId", h.ToggleVideoLike, private)
	app.Post("/likes/toggle/v/:videoId/dislike", h.ToggleVideoDislike, private)
	app.Post("/likes/toggle/c/:commentId", h.ToggleCommentLike, private)
	app.Get("/likes/videos", h.LikedVideos, private)
	app.Get("/likes/status/v/:videoId", h.VideoLikeStatus, private)
	app.Post("/subscriptions/c/:channelId", h.ToggleSubscription, private)
	app.Get("/subscriptions/c/:channelId/count", h.SubscriberCount)
	app.Get("/subscriptions/u/:subscriberId", h.SubscribedChannels)
	app.Post("/users/save/:videoId", h.ToggleSaved, private)
	app.Get("/users/saved-videos", h.SavedVideos, private)
	app.Get("/users/saved/check/:videoId", h.SavedStatus, private)
	app.Get("/reactions/:subjectType/:subjectId/count", h.Count)
	app.Post("/reactions/:subjectType/:subjectId/:kind", h.Toggle, private)

	return &reactionFixture{app: app, auth: auth, subjects: subjects}
}

func (f *reactionFixture) token(t *testing.T, actor string) string {
	t.Helper()
	tok, err := f.auth.Issue(actor, "tester", time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *reactionFixture) do(t *testing.T, method, path, token string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	require.Equal(t, resp.StatusCode, env.StatusCode)
	return env
}

type toggleData struct {
	Active  bool     `json:"active"`
	Kind    string   `json:"kind"`
	Cleared []string `json:"cleared"`
	Count   int64    `json:"count"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestToggleVideoLikeTwice(t *testing.T) {
	f := newReactionFixture(t)
	video := f.subjects.Add(reaction.SubjectVideo, reaction.Subject{Title: "intro"}).String()
	tok := f.token(t, uuid.NewString())

	env := f.do(t, fiber.MethodPost, "/likes/toggle/v/"+video, tok)
	require.Equal(t, fiber.StatusOK, env.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "Video liked", env.Message)
	got := decode[toggleData](t, env.Data)
	assert.True(t, got.Active)
	assert.EqualValues(t, 1, got.Count)

	env = f.do(t, fiber.MethodPost, "/likes/toggle/v/"+video, tok)
	got = decode[toggleData](t, env.Data)
	assert.False(t, got.Active)
	assert.EqualValues(t, 0, got.Count)
	assert.Equal(t, "Video unliked", env.Message)
}

func TestDislikeClearsLike(t *testing.T) {
	f := newReactionFixture(t)
	video := f.subjects.Add(reaction.SubjectVideo, reaction.Subject{}).String()
	tok := f.token(t, uuid.NewString())

	f.do(t, fiber.MethodPost, "/likes/toggle/v/"+video, tok)
	env := f.do(t, fiber.MethodPost, "/likes/toggle/v/"+video+"/dislike", tok)
	got := decode[toggleData](t, env.Data)
	assert.True(t, got.Active)
	assert.Equal(t, []string{"like"}, got.Cleared)

	env = f.do(t, fiber.MethodGet, "/likes/status/v/"+video, tok)
	status := decode[map[string]any](t, env.Data)
	assert.Equal(t, "disliked", status["state"])
	assert.Equal(t, false, status["isLiked"])
	assert.Equal(t, true, status["isDisliked"])
}

func TestToggleErrors(t *testing.T) {
	f := newReactionFixture(t)
	actor := uuid.NewString()
	tok := f.token(t, actor)
	f.subjects.Add(reaction.SubjectChannel, reaction.Subject{ID: uuid.MustParse(actor)})

	tests := []struct {
		name    string
		path    string
		token   string
		status  int
		code    string
		message string
	}{
		{"no token", "/likes/toggle/v/" + uuid.NewString(), "", 401, "UNAUTHENTICATED", "Missing bearer token"},
		{"bad id", "/likes/toggle/v/not-a-uuid", tok, 400, "INVALID_ARGUMENT", "Invalid videoId format"},
		{"missing video", "/likes/toggle/v/" + uuid.NewString(), tok, 404, "NOT_FOUND", "Video not found"},
		{"missing comment", "/likes/toggle/c/" + uuid.NewString(), tok, 404, "NOT_FOUND", "Comment not found"},
		{"self subscribe", "/subscriptions/c/" + actor, tok, 400, "INVALID_ARGUMENT", "You cannot subscribe to yourself"},
		{"generic bad kind", "/reactions/comment/" + uuid.NewString() + "/dislike", tok, 400, "INVALID_ARGUMENT", `kind "dislike" is not valid for comment`},
		{"generic bad type", "/reactions/post/" + uuid.NewString() + "/like", tok, 400, "INVALID_ARGUMENT", `unknown subject type "post"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := f.do(t, fiber.MethodPost, tt.path, tt.token)
			assert.Equal(t, tt.status, env.StatusCode)
			assert.Equal(t, tt.code, env.Code)
			assert.Equal(t, tt.message, env.Message)
			assert.False(t, env.Success)
		})
	}
}

func TestSubscriptionsAreCountedAndListed(t *testing.T) {
	f := newReactionFixture(t)
	channel := f.subjects.Add(reaction.SubjectChannel, reaction.Subject{Title: "gopher"}).String()
	subscriber := uuid.NewString()
	tok := f.token(t, subscriber)
	for range 3 {
		f.do(t, fiber.MethodPost, "/subscriptions/c/"+channel, f.token(t, uuid.NewString()))
	}
	env := f.do(t, fiber.MethodPost, "/subscriptions/c/"+channel, tok)
	assert.Equal(t, "Subscribed successfully", env.Message)

	env = f.do(t, fiber.MethodGet, "/subscriptions/c/"+channel+"/count", "")
	count := decode[map[string]any](t, env.Data)
	assert.EqualValues(t, 4, count["subscribersCount"])

	env = f.do(t, fiber.MethodGet, "/subscriptions/u/"+subscriber+"?page=1&limit=10", "")
	page := decode[reaction.Page](t, env.Data)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Subject)
	assert.Equal(t, "gopher", page.Items[0].Subject.Title)
	assert.EqualValues(t, 1, page.Total)
}

func TestSavedVideosRoundTrip(t *testing.T) {
	f := newReactionFixture(t)
	video := f.subjects.Add(reaction.SubjectVideo, reaction.Subject{Title: "keep"}).String()
	tok := f.token(t, uuid.NewString())

	env := f.do(t, fiber.MethodPost, "/users/save/"+video, tok)
	assert.Equal(t, "Video saved", env.Message)

	env = f.do(t, fiber.MethodGet, "/users/saved/check/"+video, tok)
	assert.Equal(t, map[string]bool{"isSaved": true}, decode[map[string]bool](t, env.Data))

	env = f.do(t, fiber.MethodGet, "/users/saved-videos", tok)
	page := decode[reaction.Page](t, env.Data)
	require.Len(t, page.Items, 1)
	assert.Equal(t, reaction.KindSaved, page.Items[0].Kind)

	env = f.do(t, fiber.MethodGet, "/likes/videos", tok)
	assert.Empty(t, decode[reaction.Page](t, env.Data).Items)
}

func TestGenericCountDefaultsToFirstKind(t *testing.T) {
	f := newReactionFixture(t)
	video := f.subjects.Add(reaction.SubjectVideo, reaction.Subject{}).String()
	f.do(t, fiber.MethodPost, "/reactions/video/"+video+"/dislike", f.token(t, uuid.NewString()))

	env := f.do(t, fiber.MethodGet, "/reactions/video/"+video+"/count", "")
	assert.EqualValues(t, 0, decode[map[string]any](t, env.Data)["count"])
	assert.Equal(t, "like", decode[map[string]any](t, env.Data)["kind"])

	env = f.do(t, fiber.MethodGet, "/reactions/video/"+video+"/count?kind=dislike", "")
	assert.EqualValues(t, 1, decode[map[string]any](t, env.Data)["count"])

	env = f.do(t, fiber.MethodGet, "/reactions/video/"+video+"/count?kind=subscribed", "")
	assert.Equal(t, fiber.StatusBadRequest, env.StatusCode)
}
