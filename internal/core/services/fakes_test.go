package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

// In-memory fakes for the ports, per the swappable-provider design.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.ID = primitive.NewObjectID()
	copied := *user
	r.users[user.ID.Hex()] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "full_name":
			user.FullName = v.(string)
		case "password_hash":
			user.PasswordHash = v.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateSocial(_ context.Context, id string, link *domain.SocialLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.Social = link
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*domain.Post{}}
}

func (r *fakePostRepo) Save(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.posts {
		if existing.Slug == post.Slug {
			return fmt.Errorf("%w: slug %q already exists", domain.ErrValidation, post.Slug)
		}
	}
	post.ID = primitive.NewObjectID()
	copied := *post
	r.posts[post.ID.Hex()] = &copied
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, post := range r.posts {
		if post.Slug == slug {
			copied := *post
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, post := range r.posts {
		if post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) List(_ context.Context, limit, offset int64) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.Post, 0, len(r.posts))
	for _, post := range r.posts {
		copied := *post
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= int64(len(all)) {
		return nil, nil
	}
	all = all[offset:]
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID string, limit int64) ([]*domain.Post, error) {
	all, err := r.List(context.Background(), int64(len(r.posts)), 0)
	if err != nil {
		return nil, err
	}
	var byAuthor []*domain.Post
	for _, post := range all {
		if post.CreatedBy.Hex() == authorID {
			byAuthor = append(byAuthor, post)
		}
	}
	if int64(len(byAuthor)) > limit {
		byAuthor = byAuthor[:limit]
	}
	return byAuthor, nil
}

func (r *fakePostRepo) Update(_ context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			post.Title = v.(string)
		case "body":
			post.Body = v.(string)
		case "slug":
			post.Slug = v.(string)
		case "cover_image_url":
			post.CoverImageURL = v.(string)
		}
	}
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*domain.Comment{}}
}

func (r *fakeCommentRepo) Save(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	copied := *comment
	r.comments[comment.ID.Hex()] = &copied
	return nil
}

func (r *fakeCommentRepo) ListForPost(_ context.Context, postID string) ([]*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Comment
	for _, comment := range r.comments {
		if comment.PostID.Hex() == postID {
			copied := *comment
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) DeleteForPost(_ context.Context, postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, comment := range r.comments {
		if comment.PostID.Hex() == postID {
			delete(r.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeMediaStore struct {
	err  error
	puts []string
}

func (s *fakeMediaStore) Put(_ context.Context, filename string, _ io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.puts = append(s.puts, filename)
	return "/uploads/" + filename, nil
}

// recordingSocial satisfies ports.SocialService for post service tests.
type recordingSocial struct {
	published []string
}

func (s *recordingSocial) BeginLink(context.Context) (*ports.BeginLinkResult, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingSocial) CompleteLink(context.Context, string, ports.CompleteLinkInput) (*domain.SocialLink, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingSocial) Disable(context.Context, string) error { return nil }

func (s *recordingSocial) TestConnection(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *recordingSocial) PublishPost(_ context.Context, _ string, post *domain.Post) {
	s.published = append(s.published, post.Slug)
}

type fakeProvider struct {
	exchangeCalls int
	refreshCalls  int
	publishTexts  []string

	exchangeToken *ports.ProviderToken
	refreshToken  *ports.ProviderToken
	profile       *ports.ProviderProfile

	exchangeErr error
	refreshErr  error
	publishErr  error
}

func (p *fakeProvider) AuthCodeURL(state, challenge string) string {
	return "https://provider.test/authorize?state=" + state + "&code_challenge=" + challenge
}

func (p *fakeProvider) Exchange(_ context.Context, _, _ string) (*ports.ProviderToken, error) {
	p.exchangeCalls++
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.exchangeToken, nil
}

func (p *fakeProvider) Refresh(_ context.Context, _ string) (*ports.ProviderToken, error) {
	p.refreshCalls++
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	return p.refreshToken, nil
}

func (p *fakeProvider) Profile(_ context.Context, _ string) (*ports.ProviderProfile, error) {
	if p.profile == nil {
		return nil, errors.New("no profile configured")
	}
	return p.profile, nil
}

func (p *fakeProvider) Publish(_ context.Context, _, text string) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.publishTexts = append(p.publishTexts, text)
	return nil
}

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Generate(_ context.Context, _, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}
