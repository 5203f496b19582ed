package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/repository"
	"github.com/prperemyshlev/social-service/pkg/mailer"
)

// memStore backs every fake repository with maps guarded by one mutex
type memStore struct {
	mu        sync.Mutex
	users     map[string]domain.User
	codes     map[string]domain.VerificationCode
	blacklist map[string]domain.BlacklistedToken
	follows   map[[2]string]bool
	posts     map[string]domain.Post
	comments  map[string]domain.Comment
	likes     map[string]domain.Like

	failUpdates error
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]domain.User),
		codes:     make(map[string]domain.VerificationCode),
		blacklist: make(map[string]domain.BlacklistedToken),
		follows:   make(map[[2]string]bool),
		posts:     make(map[string]domain.Post),
		comments:  make(map[string]domain.Comment),
		likes:     make(map[string]domain.Like),
	}
}

func (m *memStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		User:             &memUsers{m},
		VerificationCode: &memCodes{m},
		Blacklist:        &memBlacklist{m},
		Follow:           &memFollows{m},
		Post:             &memPosts{m},
		Comment:          &memComments{m},
		Like:             &memLikes{m},
	}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repository.ErrNotFound)
}

type memUsers struct{ m *memStore }

func (r *memUsers) conflict(user *domain.User) error {
	for _, other := range r.m.users {
		if other.ID == user.ID {
			continue
		}
		switch {
		case strings.EqualFold(other.Email, user.Email):
			return repository.ErrDuplicateEmail
		case other.CountryCode == user.CountryCode && other.PhoneNumber == user.PhoneNumber:
			return repository.ErrDuplicatePhone
		case strings.EqualFold(other.Username, user.Username):
			return repository.ErrDuplicateUsername
		}
	}
	return nil
}

func (r *memUsers) Create(_ context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if err := r.conflict(user); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.m.users[user.ID] = *user
	return nil
}

func (r *memUsers) find(match func(domain.User) bool) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, user := range r.m.users {
		if match(user) {
			u := user
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (r *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *memUsers) GetByPhone(_ context.Context, countryCode, phoneNumber string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.CountryCode == countryCode && u.PhoneNumber == phoneNumber })
}

// GetByEmailOrUsername prefers an email match like the Postgres query does
func (r *memUsers) GetByEmailOrUsername(_ context.Context, login string) (*domain.User, error) {
	user, err := r.find(func(u domain.User) bool { return strings.EqualFold(u.Email, login) })
	if err == nil {
		return user, nil
	}
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Username, login) })
}

func (r *memUsers) Update(_ context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.failUpdates != nil {
		return r.m.failUpdates
	}
	if _, ok := r.m.users[user.ID]; !ok {
		return notFound("user")
	}
	if err := r.conflict(user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()
	r.m.users[user.ID] = *user
	return nil
}

func (r *memUsers) Search(_ context.Context, pattern, excludeID string, limit int) ([]*domain.User, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}

	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	users := make([]*domain.User, 0)
	for _, user := range r.m.users {
		if user.ID != excludeID && (re.MatchString(user.Username) || re.MatchString(user.FullName)) {
			u := user
			users = append(users, &u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

type memCodes struct{ m *memStore }

func (r *memCodes) Create(_ context.Context, code *domain.VerificationCode) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	code.ID = uuid.New().String()
	r.m.codes[code.UserID] = *code
	return nil
}

func (r *memCodes) GetByUserID(_ context.Context, userID string) (*domain.VerificationCode, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	code, ok := r.m.codes[userID]
	if !ok {
		return nil, notFound("verification code")
	}
	return &code, nil
}

func (r *memCodes) Replace(_ context.Context, userID, codeHash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	code, ok := r.m.codes[userID]
	if !ok {
		return notFound("verification code")
	}
	code.CodeHash = codeHash
	code.AlreadyUsed = false
	r.m.codes[userID] = code
	return nil
}

func (r *memCodes) Consume(_ context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	code, ok := r.m.codes[userID]
	if !ok || code.AlreadyUsed {
		return repository.ErrAlreadyUsed
	}
	code.AlreadyUsed = true
	r.m.codes[userID] = code
	return nil
}

type memBlacklist struct{ m *memStore }

func (r *memBlacklist) Add(_ context.Context, token *domain.BlacklistedToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.blacklist[token.TokenHash]; ok {
		return repository.ErrDuplicateToken
	}
	r.m.blacklist[token.TokenHash] = *token
	return nil
}

func (r *memBlacklist) Exists(_ context.Context, tokenHash string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	_, ok := r.m.blacklist[tokenHash]
	return ok, nil
}

func (r *memBlacklist) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var deleted int64
	for hash, token := range r.m.blacklist {
		if token.ExpiresAt.Before(now) {
			delete(r.m.blacklist, hash)
			deleted++
		}
	}
	return deleted, nil
}

type memFollows struct{ m *memStore }

func (r *memFollows) Follow(_ context.Context, followerID, followeeID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	edge := [2]string{followerID, followeeID}
	if r.m.follows[edge] {
		return repository.ErrDuplicateFollow
	}
	r.m.follows[edge] = true
	return nil
}

func (r *memFollows) Unfollow(_ context.Context, followerID, followeeID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	edge := [2]string{followerID, followeeID}
	if !r.m.follows[edge] {
		return notFound("follow")
	}
	delete(r.m.follows, edge)
	return nil
}

func (r *memFollows) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return r.m.follows[[2]string{followerID, followeeID}], nil
}

func (r *memFollows) collect(match func(edge [2]string) (string, bool)) []*domain.User {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	users := make([]*domain.User, 0)
	for edge := range r.m.follows {
		if id, ok := match(edge); ok {
			u := r.m.users[id]
			users = append(users, &u)
		}
	}
	return users
}

func (r *memFollows) Followers(_ context.Context, userID string) ([]*domain.User, error) {
	return r.collect(func(edge [2]string) (string, bool) { return edge[0], edge[1] == userID }), nil
}

func (r *memFollows) Following(_ context.Context, userID string) ([]*domain.User, error) {
	return r.collect(func(edge [2]string) (string, bool) { return edge[1], edge[0] == userID }), nil
}

type memPosts struct{ m *memStore }

func (r *memPosts) Create(_ context.Context, post *domain.Post) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	post.ID = uuid.New().String()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.m.posts[post.ID] = *post
	return nil
}

func (r *memPosts) GetByID(_ context.Context, id string) (*domain.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	post, ok := r.m.posts[id]
	if !ok {
		return nil, notFound("post")
	}
	return &post, nil
}

func (r *memPosts) Update(_ context.Context, post *domain.Post) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.posts[post.ID]; !ok {
		return notFound("post")
	}
	r.m.posts[post.ID] = *post
	return nil
}

func (r *memPosts) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.posts[id]; !ok {
		return notFound("post")
	}
	delete(r.m.posts, id)
	return nil
}

func (r *memPosts) ListByUser(_ context.Context, userID string, offset, limit int) ([]*domain.Post, int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	posts := make([]*domain.Post, 0)
	for _, post := range r.m.posts {
		if post.UserID == userID {
			p := post
			posts = append(posts, &p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return window(posts, offset, limit), len(posts), nil
}

type memComments struct{ m *memStore }

func (r *memComments) Create(_ context.Context, comment *domain.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	comment.ID = uuid.New().String()
	r.m.comments[comment.ID] = *comment
	return nil
}

func (r *memComments) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	comment, ok := r.m.comments[id]
	if !ok {
		return nil, notFound("comment")
	}
	return &comment, nil
}

func (r *memComments) Update(_ context.Context, comment *domain.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.comments[comment.ID] = *comment
	return nil
}

func (r *memComments) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.comments[id]; !ok {
		return notFound("comment")
	}
	delete(r.m.comments, id)
	return nil
}

func (r *memComments) ListByPost(_ context.Context, postID string, offset, limit int) ([]*domain.Comment, int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	comments := make([]*domain.Comment, 0)
	for _, comment := range r.m.comments {
		if comment.PostID == postID {
			c := comment
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return window(comments, offset, limit), len(comments), nil
}

type memLikes struct{ m *memStore }

func sameTarget(like domain.Like, target repository.LikeTarget) bool {
	if target.PostID != "" {
		return like.PostID != nil && *like.PostID == target.PostID
	}
	return like.CommentID != nil && *like.CommentID == target.CommentID
}

func (r *memLikes) Create(_ context.Context, like *domain.Like) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	target := repository.LikeTarget{}
	if like.PostID != nil {
		target.PostID = *like.PostID
	} else if like.CommentID != nil {
		target.CommentID = *like.CommentID
	}
	for _, other := range r.m.likes {
		if other.UserID == like.UserID && sameTarget(other, target) {
			return repository.ErrDuplicateLike
		}
	}

	like.ID = uuid.New().String()
	r.m.likes[like.ID] = *like
	return nil
}

func (r *memLikes) GetByID(_ context.Context, id string) (*domain.Like, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	like, ok := r.m.likes[id]
	if !ok {
		return nil, notFound("like")
	}
	return &like, nil
}

func (r *memLikes) GetByUserAndTarget(_ context.Context, userID string, target repository.LikeTarget) (*domain.Like, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, like := range r.m.likes {
		if like.UserID == userID && sameTarget(like, target) {
			l := like
			return &l, nil
		}
	}
	return nil, notFound("like")
}

func (r *memLikes) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.likes[id]; !ok {
		return notFound("like")
	}
	delete(r.m.likes, id)
	return nil
}

func (r *memLikes) ListByTarget(_ context.Context, target repository.LikeTarget, offset, limit int) ([]*domain.Like, int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	likes := make([]*domain.Like, 0)
	for _, like := range r.m.likes {
		if sameTarget(like, target) {
			l := like
			likes = append(likes, &l)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].ID < likes[j].ID })
	return window(likes, offset, limit), len(likes), nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// fakeMailer records every message handed to it
type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (f *fakeMailer) Send(msg mailer.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
}

func (f *fakeMailer) messages() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

// fakeStorage keeps uploaded objects in memory. Uploads whose body equals
// failBody fail with errStorageDown.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string]string
	err       error
	failBody  string
	deleteErr error
	deleted   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]string)}
}

func (f *fakeStorage) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if f.failBody != "" && string(data) == f.failBody {
		return "", errStorageDown
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = string(data)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

var errStorageDown = errors.New("storage unavailable")

// addUser stores a verified user directly, bypassing signup
func (m *memStore) addUser(username, fullName string) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := domain.User{
		ID:          uuid.New().String(),
		Email:       username + "@example.com",
		Username:    username,
		FullName:    fullName,
		PhoneNumber: "1000" + strconv.Itoa(1000+len(m.users)),
		CountryCode: "+1",
		Verified:    true,
	}
	m.users[user.ID] = user
	return &user
}
