package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/pkg/database"
)

func newTestDB(t *testing.T) *gormDBHandle {
	t.Helper()

	// One connection keeps the in-memory database shared across the
	// pool; every extra sqlite :memory: connection opens a fresh one.
	db, err := database.New(&database.Config{
		Driver:       "sqlite",
		FilePath:     ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.AutoMigrate(db, &domain.UserModel{}, &domain.PostModel{}, &domain.CommentModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return &gormDBHandle{
		users:    NewGormUserRepository(db),
		posts:    NewGormPostRepository(db),
		comments: NewGormCommentRepository(db),
	}
}

type gormDBHandle struct {
	users    *GormUserRepository
	posts    *GormPostRepository
	comments *GormCommentRepository
}

func (h *gormDBHandle) mustUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Login: "traveler", PasswordHash: "x"}
	if err := h.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (h *gormDBHandle) mustPost(t *testing.T, userID, title string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		UserID:   userID,
		UserName: "traveler",
		Image:    "/uploads/posts/x.jpg",
		Title:    title,
		Location: "Славське, Україна",
	}
	if err := h.posts.Create(context.Background(), post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func TestUserCreateAndGet(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()

	user := h.mustUser(t, "user@example.com")
	if user.ID == "" {
		t.Fatal("create must assign an ID")
	}

	byID, err := h.users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != "user@example.com" {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byEmail, err := h.users.GetByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("id mismatch: %s vs %s", byEmail.ID, user.ID)
	}
}

func TestUserNotFound(t *testing.T) {
	h := newTestDB(t)

	if _, err := h.users.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := h.users.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	h := newTestDB(t)
	h.mustUser(t, "user@example.com")

	dup := &domain.User{Email: "user@example.com", Login: "another", PasswordHash: "y"}
	if err := h.users.Create(context.Background(), dup); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUpdateAvatar(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()
	user := h.mustUser(t, "user@example.com")

	url := "/uploads/avatars/a.jpg"
	if err := h.users.UpdateAvatar(ctx, user.ID, &url); err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}

	got, err := h.users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Avatar == nil || *got.Avatar != url {
		t.Fatalf("avatar not persisted: %+v", got.Avatar)
	}

	if err := h.users.UpdateAvatar(ctx, user.ID, nil); err != nil {
		t.Fatalf("clear avatar: %v", err)
	}
	got, _ = h.users.GetByID(ctx, user.ID)
	if got.Avatar != nil {
		t.Fatal("avatar not cleared")
	}

	if err := h.users.UpdateAvatar(ctx, "missing", &url); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFeedOrdering(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()
	user := h.mustUser(t, "user@example.com")

	first := h.mustPost(t, user.ID, "first")
	second := h.mustPost(t, user.ID, "second")
	third := h.mustPost(t, user.ID, "third")

	feed, err := h.posts.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(feed))
	}
	// Newest first; k-sortable IDs break created_at ties.
	if feed[0].ID != third.ID || feed[1].ID != second.ID || feed[2].ID != first.ID {
		t.Fatalf("wrong feed order: %s %s %s", feed[0].Title, feed[1].Title, feed[2].Title)
	}
}

func TestListByUser(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()
	alice := h.mustUser(t, "alice@example.com")
	bob := h.mustUser(t, "bob@example.com")

	h.mustPost(t, alice.ID, "from alice")
	h.mustPost(t, bob.ID, "from bob")
	h.mustPost(t, alice.ID, "alice again")

	posts, err := h.posts.ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	for _, p := range posts {
		if p.UserID != alice.ID {
			t.Fatalf("foreign post in user listing: %+v", p)
		}
	}
	if posts[0].Title != "alice again" {
		t.Fatalf("expected newest first, got %q", posts[0].Title)
	}
}

func TestToggleLikePair(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()
	user := h.mustUser(t, "user@example.com")
	post := h.mustPost(t, user.ID, "likeable")

	liked, err := h.posts.ToggleLike(ctx, post.ID, "u9")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !liked {
		t.Fatal("first toggle must report liked")
	}

	got, _ := h.posts.GetByID(ctx, post.ID)
	if !got.LikedBy("u9") {
		t.Fatal("like not persisted")
	}

	liked, err = h.posts.ToggleLike(ctx, post.ID, "u9")
	if err != nil {
		t.Fatalf("second ToggleLike: %v", err)
	}
	if liked {
		t.Fatal("second toggle must report unliked")
	}

	// A toggle pair restores the original set.
	got, _ = h.posts.GetByID(ctx, post.ID)
	if got.LikedBy("u9") || len(got.Likes) != 0 {
		t.Fatalf("like set not restored: %v", got.Likes)
	}
}

func TestToggleLikeConcurrentUsers(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()
	user := h.mustUser(t, "user@example.com")
	post := h.mustPost(t, user.ID, "popular")

	const likers = 10
	var wg sync.WaitGroup
	errs := make(chan error, likers)
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := h.posts.ToggleLike(ctx, post.ID, fmt.Sprintf("liker-%d", n)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("ToggleLike: %v", err)
	}

	// Racing toggles by distinct users must not lose any like.
	got, err := h.posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Likes) != likers {
		t.Fatalf("like set has %d members, want %d: %v", len(got.Likes), likers, got.Likes)
	}
	for i := 0; i < likers; i++ {
		if !got.LikedBy(fmt.Sprintf("liker-%d", i)) {
			t.Fatalf("liker-%d lost: %v", i, got.Likes)
		}
	}
}

func TestToggleLikeMissingPost(t *testing.T) {
	h := newTestDB(t)

	if _, err := h.posts.ToggleLike(context.Background(), "missing", "u9"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestCommentCreateBumpsCounter(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()
	user := h.mustUser(t, "user@example.com")
	post := h.mustPost(t, user.ID, "commented")

	for i, want := range []int64{1, 2, 3} {
		comment := &domain.Comment{
			PostID:   post.ID,
			UserID:   user.ID,
			UserName: "traveler",
			Text:     "Чудово!",
		}
		count, err := h.comments.Create(ctx, comment)
		if err != nil {
			t.Fatalf("comment %d: %v", i, err)
		}
		if count != want {
			t.Fatalf("comment %d: counter = %d, want %d", i, count, want)
		}
	}

	got, err := h.posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CommentsCount != 3 {
		t.Fatalf("denormalized counter = %d, want 3", got.CommentsCount)
	}

	live, err := h.comments.CountByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountByPost: %v", err)
	}
	if live != 3 {
		t.Fatalf("live count = %d, want 3", live)
	}
}

func TestCommentCreateConcurrent(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()
	user := h.mustUser(t, "user@example.com")
	post := h.mustPost(t, user.ID, "busy thread")

	const writers = 8
	var wg sync.WaitGroup
	counts := make(chan int64, writers)
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			comment := &domain.Comment{
				PostID: post.ID,
				UserID: user.ID,
				Text:   fmt.Sprintf("коментар %d", n),
			}
			count, err := h.comments.Create(ctx, comment)
			if err != nil {
				errs <- err
				return
			}
			counts <- count
		}(i)
	}
	wg.Wait()
	close(errs)
	close(counts)
	for err := range errs {
		t.Fatalf("Create: %v", err)
	}

	// Every writer saw a distinct count and none got lost.
	seen := make(map[int64]bool, writers)
	for count := range counts {
		if seen[count] {
			t.Fatalf("duplicate count %d returned", count)
		}
		seen[count] = true
	}
	if len(seen) != writers {
		t.Fatalf("expected %d distinct counts, got %d", writers, len(seen))
	}

	got, err := h.posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CommentsCount != writers {
		t.Fatalf("denormalized counter = %d, want %d", got.CommentsCount, writers)
	}
	live, err := h.comments.CountByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("CountByPost: %v", err)
	}
	if live != writers {
		t.Fatalf("live count = %d, want %d", live, writers)
	}
}

func TestCommentCreateMissingPost(t *testing.T) {
	h := newTestDB(t)

	comment := &domain.Comment{PostID: "missing", UserID: "u1", Text: "x"}
	if _, err := h.comments.Create(context.Background(), comment); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	// Nothing may be written when the post check fails.
	count, err := h.comments.CountByPost(context.Background(), "missing")
	if err != nil {
		t.Fatalf("CountByPost: %v", err)
	}
	if count != 0 {
		t.Fatalf("orphan comment written: %d", count)
	}
}

func TestCommentOrdering(t *testing.T) {
	h := newTestDB(t)
	ctx := context.Background()
	user := h.mustUser(t, "user@example.com")
	post := h.mustPost(t, user.ID, "threaded")

	texts := []string{"перший", "другий", "третій"}
	for _, text := range texts {
		comment := &domain.Comment{PostID: post.ID, UserID: user.ID, Text: text}
		if _, err := h.comments.Create(ctx, comment); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	comments, err := h.comments.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	// Oldest first; k-sortable IDs break created_at ties.
	for i, text := range texts {
		if comments[i].Text != text {
			t.Fatalf("comment %d = %q, want %q", i, comments[i].Text, text)
		}
	}
}
