package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/internal/geocoding"
	"github.com/MStartsev/postcard/internal/images"
	"github.com/MStartsev/postcard/internal/repository"
	"github.com/MStartsev/postcard/pkg/token"
)

// fakeUserRepo is an in-memory UserRepository that counts lookups, so tests
// can assert an operation never reached the repository.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int

	createCalls  int
	getByIDCalls int
	getByEmCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if _, ok := f.byEmail[user.Email]; ok {
		return errEmailExists
	}
	f.nextID++
	user.ID = fmt.Sprintf("u%d", f.nextID)
	user.CreatedAt = time.Now()
	clone := *user
	f.byID[user.ID] = &clone
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getByIDCalls++
	user, ok := f.byID[id]
	if !ok {
		return nil, errUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getByEmCalls++
	user, ok := f.byEmail[email]
	if !ok {
		return nil, errUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) UpdateAvatar(ctx context.Context, userID string, url *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return errUserNotFound
	}
	user.Avatar = url
	return nil
}

// fakePostRepo is an in-memory PostRepository ordered newest first.
type fakePostRepo struct {
	mu     sync.Mutex
	posts  []*domain.Post
	nextID int

	createCalls int
}

func (f *fakePostRepo) Create(ctx context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.nextID++
	post.ID = fmt.Sprintf("p%d", f.nextID)
	post.CreatedAt = time.Now()
	clone := *post
	f.posts = append([]*domain.Post{&clone}, f.posts...)
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, errPostNotFound
}

func (f *fakePostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePostRepo) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Post
	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID != postID {
			continue
		}
		for i, id := range p.Likes {
			if id == userID {
				p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
				return false, nil
			}
		}
		p.Likes = append(p.Likes, userID)
		return true, nil
	}
	return false, errPostNotFound
}

// fakeCommentRepo is an in-memory CommentRepository.
type fakeCommentRepo struct {
	mu       sync.Mutex
	posts    *fakePostRepo
	comments map[string][]domain.Comment
	nextID   int

	createCalls int
}

func newFakeCommentRepo(posts *fakePostRepo) *fakeCommentRepo {
	return &fakeCommentRepo{posts: posts, comments: make(map[string][]domain.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if _, err := f.posts.GetByID(ctx, comment.PostID); err != nil {
		return 0, errPostNotFound
	}
	f.nextID++
	comment.ID = fmt.Sprintf("c%d", f.nextID)
	comment.CreatedAt = time.Now()
	f.comments[comment.PostID] = append(f.comments[comment.PostID], *comment)
	return int64(len(f.comments[comment.PostID])), nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Comment(nil), f.comments[postID]...), nil
}

func (f *fakeCommentRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.comments[postID])), nil
}

// fakeStorage records write order so upload-before-record can be asserted.
type fakeStorage struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	writes []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: make(map[string][]byte)}
}

func (f *fakeStorage) Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = data
	f.writes = append(f.writes, key)
	return nil
}

func (f *fakeStorage) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, io.EOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok, nil
}

func (f *fakeStorage) GetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "/uploads/" + key, nil
}

// fakeGeocoder answers from fixed tables.
type fakeGeocoder struct {
	reverseName string
	reverseErr  error
}

func (f *fakeGeocoder) Resolve(ctx context.Context, placeName string) (*domain.LocationData, error) {
	return nil, geocoding.ErrNoMatch
}

func (f *fakeGeocoder) ReverseResolve(ctx context.Context, lat, lon float64) (string, error) {
	if f.reverseErr != nil {
		return "", f.reverseErr
	}
	if f.reverseName == "" {
		return "", geocoding.ErrNoMatch
	}
	return f.reverseName, nil
}

var (
	errEmailExists  = repository.ErrEmailExists
	errUserNotFound = repository.ErrUserNotFound
	errPostNotFound = repository.ErrPostNotFound
)

func newTestTokens(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager(time.Hour, "test")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func testNormalizer() *images.Normalizer {
	return images.NewNormalizer(64, 80)
}

// testPhoto returns a small decodable image upload.
func testPhoto(t *testing.T) *domain.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return &domain.Upload{
		Reader:      &buf,
		Size:        int64(buf.Len()),
		ContentType: "image/png",
	}
}
