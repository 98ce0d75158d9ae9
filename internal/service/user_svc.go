package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Medard30/StudyLoop/internal/model"
)

// MaxUserNameLen matches users.name VARCHAR(80).
const MaxUserNameLen = 80

type UserService struct {
	users UserStore
	stats StatsStore
}

func NewUserService(users UserStore, stats StatsStore) *UserService {
	return &UserService{users: users, stats: stats}
}

// EnsureAuthor resolves the named author, creating it on first use. Every
// creating operation receives the resulting id explicitly.
func (s *UserService) EnsureAuthor(ctx context.Context, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxUserNameLen {
		return nil, fmt.Errorf("author name %q: %w", name, model.ErrInvalidInput)
	}
	return s.users.EnsureUser(ctx, name)
}

// GetStats returns aggregate board statistics.
func (s *UserService) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	return s.stats.GetStats(ctx)
}
