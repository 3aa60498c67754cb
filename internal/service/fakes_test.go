package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/reaction"
	"github.com/mathieu-neron/vixtube/internal/reaction/reactiontest"
)

type env struct {
	subjects  *reactiontest.Subjects
	store     *reactiontest.MemoryStore
	reactions *ReactionService
	videos    *fakeVideos
	tweets    *fakeTweets
	users     *fakeUsers
	playlists *fakePlaylists
}

func newEnv() *env {
	e := &env{
		subjects:  reactiontest.NewSubjects(),
		store:     reactiontest.NewMemoryStore(),
		videos:    &fakeVideos{items: map[string]*model.Video{}},
		tweets:    &fakeTweets{items: map[string]*model.Tweet{}},
		users:     &fakeUsers{items: map[string]*model.User{}},
		playlists: &fakePlaylists{items: map[string]*model.Playlist{}},
	}
	cache := NewCacheService("", 0, zerolog.Nop())
	e.reactions = NewReactionService(reaction.NewLedger(e.store, e.subjects), cache, zerolog.Nop())
	return e
}

func (e *env) addUser(name string) string {
	id := e.subjects.Add(reaction.SubjectChannel, reaction.Subject{Title: name}).String()
	e.users.items[id] = &model.User{ID: id, Username: name, Email: name + "@example.com"}
	return id
}

func (e *env) addVideo(owner string, published bool) string {
	id := e.subjects.Add(reaction.SubjectVideo, reaction.Subject{Title: "v"}).String()
	e.videos.items[id] = &model.Video{ID: id, OwnerID: owner, Title: "v", IsPublished: published,
		Owner: &model.Owner{ID: owner, Username: "owner"}}
	return id
}

func (e *env) addTweet(owner, content string) string {
	id := e.subjects.Add(reaction.SubjectTweet, reaction.Subject{Description: content}).String()
	e.tweets.items[id] = &model.Tweet{ID: id, OwnerID: owner, Content: content, CreatedAt: time.Now()}
	return id
}

type fakeVideos struct {
	mu    sync.Mutex
	items map[string]*model.Video
}

func (f *fakeVideos) Create(ctx context.Context, id, ownerID string, req model.PublishVideoRequest) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := &model.Video{ID: id, OwnerID: ownerID, Title: req.Title, IsPublished: true}
	f.items[id] = v
	return v, nil
}

func (f *fakeVideos) FindByID(ctx context.Context, id string) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return nil, apperror.NotFoundf("Video not found")
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVideos) IncrementViews(ctx context.Context, id string) (*model.Video, error) {
	f.mu.Lock()
	if v, ok := f.items[id]; ok {
		v.Views++
	}
	f.mu.Unlock()
	return f.FindByID(ctx, id)
}

func (f *fakeVideos) List(ctx context.Context, q model.VideoQuery, includeUnpublished bool) ([]model.Video, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Video
	for _, v := range f.items {
		if (includeUnpublished || v.IsPublished) && (q.OwnerID == "" || v.OwnerID == q.OwnerID) {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeVideos) Search(ctx context.Context, q string, limit int) ([]model.Video, error) {
	return []model.Video{}, nil
}

func (f *fakeVideos) Update(ctx context.Context, id string, req model.UpdateVideoRequest) (*model.Video, error) {
	f.mu.Lock()
	if v, ok := f.items[id]; ok && req.Title != "" {
		v.Title = req.Title
	}
	f.mu.Unlock()
	return f.FindByID(ctx, id)
}

func (f *fakeVideos) TogglePublish(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.items[id]
	v.IsPublished = !v.IsPublished
	return v.IsPublished, nil
}

func (f *fakeVideos) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakeTweets struct {
	mu    sync.Mutex
	items map[string]*model.Tweet
}

func (f *fakeTweets) Create(ctx context.Context, id, ownerID, content string) (*model.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &model.Tweet{ID: id, OwnerID: ownerID, Content: content, CreatedAt: time.Now()}
	f.items[id] = t
	return t, nil
}

func (f *fakeTweets) FindByID(ctx context.Context, id string) (*model.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return nil, apperror.NotFoundf("Tweet not found")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTweets) List(ctx context.Context, ownerID string, page, limit int) ([]model.Tweet, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Tweet
	for _, t := range f.items {
		if ownerID == "" || t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	slices.SortFunc(out, func(a, b model.Tweet) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeTweets) Update(ctx context.Context, id, content string) (*model.Tweet, error) {
	f.mu.Lock()
	f.items[id].Content = content
	f.mu.Unlock()
	return f.FindByID(ctx, id)
}

func (f *fakeTweets) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakeUsers struct {
	items map[string]*model.User
}

func (f *fakeUsers) Touch(ctx context.Context, id, username string) error {
	if _, ok := f.items[id]; !ok {
		f.items[id] = &model.User{ID: id, Username: username}
	}
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, apperror.NotFoundf("Channel not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.items {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFoundf("Channel not found")
}

func (f *fakeUsers) Search(ctx context.Context, q string, limit int) ([]model.Owner, error) {
	return []model.Owner{}, nil
}

func (f *fakeUsers) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	return &model.StatsResponse{TotalUsers: int64(len(f.items))}, nil
}

type fakePlaylists struct {
	items map[string]*model.Playlist
}

func (f *fakePlaylists) Create(ctx context.Context, id, ownerID string, req model.PlaylistRequest) (*model.Playlist, error) {
	p := &model.Playlist{ID: id, OwnerID: ownerID, Name: req.Name, VideoIDs: []string{}}
	f.items[id] = p
	return p, nil
}

func (f *fakePlaylists) FindByID(ctx context.Context, id string) (*model.Playlist, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, apperror.NotFoundf("Playlist not found")
	}
	cp := *p
	cp.VideoIDs = slices.Clone(p.VideoIDs)
	return &cp, nil
}

func (f *fakePlaylists) ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error) {
	out := []model.Playlist{}
	for _, p := range f.items {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlaylists) Videos(ctx context.Context, playlistID string) ([]model.Video, error) {
	return []model.Video{}, nil
}

func (f *fakePlaylists) AddVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	p := f.items[playlistID]
	if slices.Contains(p.VideoIDs, videoID) {
		return false, nil
	}
	p.VideoIDs = append(p.VideoIDs, videoID)
	return true, nil
}

func (f *fakePlaylists) RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	p := f.items[playlistID]
	i := slices.Index(p.VideoIDs, videoID)
	if i < 0 {
		return false, nil
	}
	p.VideoIDs = slices.Delete(p.VideoIDs, i, i+1)
	return true, nil
}

func (f *fakePlaylists) Update(ctx context.Context, id string, req model.PlaylistUpdateRequest) (*model.Playlist, error) {
	if req.Name != "" {
		f.items[id].Name = req.Name
	}
	return f.FindByID(ctx, id)
}

func (f *fakePlaylists) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

// fakeHistory mirrors the watch_history upsert: one row per (user, video),
// re-watching moves it to the front.
type fakeHistory struct {
	mu      sync.Mutex
	entries []historyEntry
	videos  *fakeVideos
	clock   time.Time
}

type historyEntry struct {
	userID, videoID string
	at              time.Time
}

func (f *fakeHistory) Add(ctx context.Context, userID, videoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Second)
	f.entries = slices.DeleteFunc(f.entries, func(e historyEntry) bool {
		return e.userID == userID && e.videoID == videoID
	})
	f.entries = append(f.entries, historyEntry{userID: userID, videoID: videoID, at: f.clock})
	return nil
}

func (f *fakeHistory) List(ctx context.Context, userID string, page, limit int) ([]model.WatchedVideo, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.WatchedVideo
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.userID != userID {
			continue
		}
		v, err := f.videos.FindByID(ctx, e.videoID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, model.WatchedVideo{Video: *v, WatchedAt: e.at})
	}
	total := int64(len(out))
	start := min((page-1)*limit, len(out))
	end := min(start+limit, len(out))
	return out[start:end], total, nil
}

type fakeTotals map[string]int64

func (f fakeTotals) CountByKind(ctx context.Context) (map[string]int64, error) {
	return f, nil
}

func newID() string { return uuid.NewString() }
