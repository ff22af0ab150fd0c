package implementation

import (
	"context"
	"fmt"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// KVUserRepository stores users under user:<id> with an email lookup record
// under user_email:<email>.
type KVUserRepository struct {
	store interfaces.KVStore
}

func NewKVUserRepository(store interfaces.KVStore) *KVUserRepository {
	return &KVUserRepository{store: store}
}

func userKey(userID string) string {
	return "user:" + userID
}

func emailKey(email string) string {
	return "user_email:" + email
}

// storedUser re-exposes the password hash for persistence. The model hides it
// from JSON so API responses never carry it, but the store serializes with
// JSON too and must keep it.
type storedUser struct {
	wsnmodels.User
	PasswordHash string `json:"password_hash"`
}

func (r *KVUserRepository) CreateUser(ctx context.Context, user wsnmodels.User) error {
	stored := storedUser{User: user, PasswordHash: user.PasswordHash}
	if err := r.store.Set(ctx, userKey(user.ID), stored); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	if err := r.store.Set(ctx, emailKey(user.Email), user.ID); err != nil {
		return fmt.Errorf("failed to index user %s by email: %w", user.ID, err)
	}
	return nil
}

func (r *KVUserRepository) GetUser(ctx context.Context, userID string) (*wsnmodels.User, error) {
	var stored storedUser
	if err := r.store.Get(ctx, userKey(userID), &stored); err != nil {
		return nil, err
	}
	user := stored.User
	user.PasswordHash = stored.PasswordHash
	return &user, nil
}

func (r *KVUserRepository) GetUserByEmail(ctx context.Context, email string) (*wsnmodels.User, error) {
	var userID string
	if err := r.store.Get(ctx, emailKey(email), &userID); err != nil {
		return nil, err
	}
	return r.GetUser(ctx, userID)
}

func (r *KVUserRepository) UpdateUser(ctx context.Context, user wsnmodels.User) error {
	stored := storedUser{User: user, PasswordHash: user.PasswordHash}
	return r.store.Set(ctx, userKey(user.ID), stored)
}
