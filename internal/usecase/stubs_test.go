package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/account-api/internal/model"
	"github.com/vasapolrittideah/account-api/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = bson.NewObjectID()
	copied := *user
	r.users[user.ID.Hex()] = &copied

	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	user.PasswordHash = passwordHash
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) MarkVerifiedAndSetEmail(_ context.Context, id string, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	user.Verified = true
	user.Email = email
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) AddVerificationRef(_ context.Context, id string, tokenID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	user.Verifications = append(user.Verifications, tokenID)
	return nil
}

func (r *fakeUserRepo) AddResetPasswordRef(_ context.Context, id string, tokenID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	user.ResetPasswords = append(user.ResetPasswords, tokenID)
	return nil
}

func (r *fakeUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type fakeTokenRepo struct {
	clock *fakeClock

	mu     sync.Mutex
	seq    int
	tokens []*model.OneTimeToken
}

func newFakeTokenRepo(clk *fakeClock) *fakeTokenRepo {
	return &fakeTokenRepo{clock: clk}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, params repository.CreateTokenParams) (*model.OneTimeToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	now := r.clock.Now()
	token := &model.OneTimeToken{
		ID:        bson.NewObjectID(),
		Value:     fmt.Sprintf("%s-token-%d", params.Purpose, r.seq),
		UserID:    params.UserID,
		Purpose:   params.Purpose,
		Email:     params.Email,
		ExpiresAt: now.Add(params.TTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.tokens = append(r.tokens, token)

	copied := *token
	return &copied, nil
}

func (r *fakeTokenRepo) FindValid(_ context.Context, value string) (*model.OneTimeToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for _, token := range r.tokens {
		if token.Value == value && !token.ExpiresAt.Before(now) {
			copied := *token
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeTokenRepo) DeleteAllForUser(_ context.Context, userID bson.ObjectID, purpose model.TokenPurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.tokens[:0]
	for _, token := range r.tokens {
		if token.UserID != userID || token.Purpose != purpose {
			kept = append(kept, token)
		}
	}
	r.tokens = kept

	return nil
}

func (r *fakeTokenRepo) DeleteExpiredTokens(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	var removed int64
	kept := r.tokens[:0]
	for _, token := range r.tokens {
		if token.ExpiresAt.Before(now) {
			removed++
			continue
		}
		kept = append(kept, token)
	}
	r.tokens = kept

	return removed, nil
}

func (r *fakeTokenRepo) countForUser(userID bson.ObjectID, purpose model.TokenPurpose) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, token := range r.tokens {
		if token.UserID == userID && token.Purpose == purpose {
			count++
		}
	}

	return count
}

type fakeRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	clock   *fakeClock

	revokeErr    error
	isRevokedErr error
}

func newFakeRevocationStore(clk *fakeClock) *fakeRevocationStore {
	return &fakeRevocationStore{
		entries: make(map[string]time.Time),
		clock:   clk,
	}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, token, _ string, ttl time.Duration) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = s.clock.Now().Add(ttl)

	return nil
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	if s.isRevokedErr != nil {
		return false, s.isRevokedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.entries[token]
	return ok && expiresAt.After(s.clock.Now()), nil
}

type mailCall struct {
	email string
	token string
}

type fakeUserMailer struct {
	mu               sync.Mutex
	verifications    []mailCall
	passwordResets   []mailCall
	verifiedConfirms []string
	passwordConfirms []string
}

func (m *fakeUserMailer) SendVerification(email, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, mailCall{email: email, token: token})
}

func (m *fakeUserMailer) SendPasswordReset(email, token string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwordResets = append(m.passwordResets, mailCall{email: email, token: token})
}

func (m *fakeUserMailer) SendVerifiedConfirmation(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifiedConfirms = append(m.verifiedConfirms, email)
}

func (m *fakeUserMailer) SendPasswordResetConfirmation(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwordConfirms = append(m.passwordConfirms, email)
}
