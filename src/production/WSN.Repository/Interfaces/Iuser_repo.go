package interfaces

import (
	"context"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

// UserRepository stores user accounts and their notification settings.
type UserRepository interface {
	CreateUser(ctx context.Context, user wsnmodels.User) error
	GetUser(ctx context.Context, userID string) (*wsnmodels.User, error)
	GetUserByEmail(ctx context.Context, email string) (*wsnmodels.User, error)
	UpdateUser(ctx context.Context, user wsnmodels.User) error
}
