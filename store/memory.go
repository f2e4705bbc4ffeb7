package store

import (
	"context"
	"sort"
	"sync"

	"campusfeed/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is a mutex-guarded in-memory Store used by the tests. It keeps
// the same semantics as the Mongo adapter: set-typed likes, merged
// not-found on owned deletes, author-filtered comment mutations.
type Memory struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
	posts map[primitive.ObjectID]models.Post
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[primitive.ObjectID]models.User),
		posts: make(map[primitive.ObjectID]models.Post),
	}
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
		if u.IDNumber != nil && existing.IDNumber != nil && *existing.IDNumber == *u.IDNumber {
			return ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UserByIDNumber(_ context.Context, idNumber string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.IDNumber != nil && *u.IDNumber == idNumber {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (m *Memory) UsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byID := map[primitive.ObjectID]models.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			byID[id] = u
		}
	}
	return byID, nil
}

func (m *Memory) CreatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.posts[p.ID] = clonePost(*p)
	return nil
}

func (m *Memory) PostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = clonePost(p)
	return &p, nil
}

func (m *Memory) ListPosts(_ context.Context) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, clonePost(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (m *Memory) UpdatePostContent(_ context.Context, id primitive.ObjectID, content string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Content = content
	m.posts[id] = p
	p = clonePost(p)
	return &p, nil
}

func (m *Memory) DeletePostOwned(_ context.Context, id, owner primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok || p.UserID != owner {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *Memory) AddLike(_ context.Context, postID, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrNotFound
	}
	for _, id := range p.Likes {
		if id == userID {
			return ErrAlreadyLiked
		}
	}
	p.Likes = append(p.Likes, userID)
	m.posts[postID] = p
	return nil
}

func (m *Memory) RemoveLike(_ context.Context, postID, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrNotFound
	}
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			m.posts[postID] = p
			return nil
		}
	}
	return ErrNotLiked
}

func (m *Memory) AddComment(_ context.Context, postID primitive.ObjectID, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrNotFound
	}
	p.Comments = append(p.Comments, *c)
	m.posts[postID] = p
	return nil
}

func (m *Memory) UpdateComment(_ context.Context, postID, commentID, author primitive.ObjectID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrNotFound
	}
	for i, c := range p.Comments {
		if c.ID == commentID && c.UserID == author {
			p.Comments[i].Text = text
			m.posts[postID] = p
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteComment(_ context.Context, postID, commentID, author primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return ErrNotFound
	}
	for i, c := range p.Comments {
		if c.ID == commentID && c.UserID == author {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			m.posts[postID] = p
			return nil
		}
	}
	return ErrNotFound
}

func clonePost(p models.Post) models.Post {
	p.Media = append(make([]models.Media, 0, len(p.Media)), p.Media...)
	p.Likes = append(make([]primitive.ObjectID, 0, len(p.Likes)), p.Likes...)
	p.Comments = append(make([]models.Comment, 0, len(p.Comments)), p.Comments...)
	return p
}
