package service

import (
	"github.com/giaic/promptnights/internal/model"
	"github.com/giaic/promptnights/internal/repository"
)

// UserService keeps the local user table in sync with the identity provider.
type UserService interface {
	SyncUser(user *model.User) error
}

type userService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) UserService {
	return &userService{userRepository: userRepository}
}

func (s *userService) SyncUser(user *model.User) error {
	return s.userRepository.Upsert(user)
}
