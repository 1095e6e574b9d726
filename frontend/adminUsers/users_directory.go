package adminusers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"scanstation/infrastructure/inventory"
)

func LoadUsersPageData(ctx context.Context, dir Directory) (PageData, error) {
	users, err := dir.ListUsers(ctx)
	if err != nil {
		return PageData{}, fmt.Errorf("list users: %w", err)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return PageData{Users: users, Roles: []string{inventory.RoleAdmin, inventory.RoleExecutive}}, nil
}

// CreateUser validates locally before asking the server, which repeats the
// checks and owns uniqueness.
func CreateUser(ctx context.Context, dir Directory, username, password, role string) (string, error) {
	username = strings.TrimSpace(username)
	role = strings.TrimSpace(role)
	if username == "" {
		return "", ErrUsernameRequired
	}
	if password == "" {
		return "", ErrPasswordRequired
	}
	if !inventory.ValidRole(role) {
		return "", ErrInvalidRole
	}
	return dir.AddUser(ctx, username, password, role)
}

func DeleteUser(ctx context.Context, dir Directory, id int64) (string, error) {
	if id <= 0 {
		return "", ErrInvalidUserID
	}
	return dir.DeleteUser(ctx, id)
}

func ChangePassword(ctx context.Context, dir Directory, id int64, password string) (string, error) {
	if id <= 0 {
		return "", ErrInvalidUserID
	}
	if password == "" {
		return "", ErrPasswordRequired
	}
	return dir.UpdatePassword(ctx, id, password)
}

// ErrorMessage renders err for the operator, preferring the server's text.
func ErrorMessage(err error) string {
	var endpointErr *inventory.EndpointError
	if errors.As(err, &endpointErr) && endpointErr.Message != "" {
		return endpointErr.Message
	}
	var transportErr *inventory.TransportError
	if errors.As(err, &transportErr) {
		return "inventory server unreachable"
	}
	if errors.Is(err, inventory.ErrLoginRequired) {
		return "station account is not allowed to manage users"
	}
	return err.Error()
}
