package store

import "github.com/MStartsev/postcard/internal/domain"

// PostsState holds the full feed and the current user's own posts.
type PostsState struct {
	AllPosts  []domain.Post
	UserPosts []domain.Post
	IsLoading bool
	Err       string
}

// PostsAction is a finished posts result to fold into the state.
type PostsAction interface{ isPostsAction() }

// SetPosts replaces the whole feed.
type SetPosts struct{ Posts []domain.Post }

// SetUserPosts replaces the current user's post collection.
type SetUserPosts struct{ Posts []domain.Post }

// AddPost prepends a freshly created post.
type AddPost struct{ Post domain.Post }

// TogglePostLike flips userID's membership in a post's like set.
type TogglePostLike struct{ PostID, UserID string }

// SetCommentsCount updates a post's denormalized comment counter.
type SetCommentsCount struct {
	PostID string
	Count  int64
}

// SetPostsLoading flags a feed operation in flight.
type SetPostsLoading struct{ Loading bool }

// SetPostsError records a failed feed operation.
type SetPostsError struct{ Message string }

func (SetPosts) isPostsAction()         {}
func (SetUserPosts) isPostsAction()     {}
func (AddPost) isPostsAction()          {}
func (TogglePostLike) isPostsAction()   {}
func (SetCommentsCount) isPostsAction() {}
func (SetPostsLoading) isPostsAction()  {}
func (SetPostsError) isPostsAction()    {}

// PostsStore is the posts state container.
type PostsStore = Store[PostsState, PostsAction]

// NewPostsStore creates a posts container with empty collections.
func NewPostsStore() *PostsStore {
	return New(PostsState{}, ReducePosts)
}

// ReducePosts is the pure transition function for posts state. Slices are
// copied on write so previous snapshots stay intact.
func ReducePosts(state PostsState, action PostsAction) PostsState {
	switch a := action.(type) {
	case SetPosts:
		state.AllPosts = a.Posts
		state.IsLoading = false
		state.Err = ""
	case SetUserPosts:
		state.UserPosts = a.Posts
		state.IsLoading = false
		state.Err = ""
	case AddPost:
		state.AllPosts = prepend(state.AllPosts, a.Post)
		if len(state.UserPosts) > 0 && state.UserPosts[0].UserID == a.Post.UserID {
			state.UserPosts = prepend(state.UserPosts, a.Post)
		}
	case TogglePostLike:
		state.AllPosts = mapPosts(state.AllPosts, a.PostID, func(p domain.Post) domain.Post {
			p.Likes = toggleLike(p.Likes, a.UserID)
			return p
		})
		state.UserPosts = mapPosts(state.UserPosts, a.PostID, func(p domain.Post) domain.Post {
			p.Likes = toggleLike(p.Likes, a.UserID)
			return p
		})
	case SetCommentsCount:
		state.AllPosts = mapPosts(state.AllPosts, a.PostID, func(p domain.Post) domain.Post {
			p.CommentsCount = a.Count
			return p
		})
		state.UserPosts = mapPosts(state.UserPosts, a.PostID, func(p domain.Post) domain.Post {
			p.CommentsCount = a.Count
			return p
		})
	case SetPostsLoading:
		state.IsLoading = a.Loading
	case SetPostsError:
		state.Err = a.Message
		state.IsLoading = false
	}
	return state
}

func prepend(posts []domain.Post, post domain.Post) []domain.Post {
	out := make([]domain.Post, 0, len(posts)+1)
	out = append(out, post)
	return append(out, posts...)
}

func mapPosts(posts []domain.Post, postID string, fn func(domain.Post) domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	for i, p := range posts {
		if p.ID == postID {
			out[i] = fn(p)
		} else {
			out[i] = p
		}
	}
	return out
}

func toggleLike(likes []string, userID string) []string {
	out := make([]string, 0, len(likes)+1)
	found := false
	for _, id := range likes {
		if id == userID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, userID)
	}
	return out
}
