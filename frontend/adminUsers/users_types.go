package adminusers

import (
	"context"
	"errors"

	"scanstation/infrastructure/inventory"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("role must be admin or executive")
	ErrInvalidUserID    = errors.New("invalid user")
)

// Directory is the inventory server's user administration API.
type Directory interface {
	ListUsers(ctx context.Context) ([]inventory.User, error)
	AddUser(ctx context.Context, username, password, role string) (string, error)
	DeleteUser(ctx context.Context, id int64) (string, error)
	UpdatePassword(ctx context.Context, userID int64, password string) (string, error)
}

type PageData struct {
	Role         string
	Users        []inventory.User
	Roles        []string
	Status       string
	ErrorMessage string
}
