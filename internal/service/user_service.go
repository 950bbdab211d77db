package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/mkaneko/traintrack/internal/repository"
	"github.com/rs/zerolog/log"
)

type UserService interface {
	GetAll() ([]dto.UserResponseDTO, error)
	GetAllModels() ([]model.User, error)
	Create(req dto.UserCreateDTO) (*dto.UserResponseDTO, error)
	Update(id uint, req dto.UserUpdateDTO) (*dto.UserResponseDTO, error)
	Delete(id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAll() ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch users")
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	dtos := make([]dto.UserResponseDTO, 0, len(users))
	for _, user := range users {
		var d dto.UserResponseDTO
		if err := copier.Copy(&d, &user); err != nil {
			return nil, fmt.Errorf("failed to map user: %w", err)
		}
		dtos = append(dtos, d)
	}
	return dtos, nil
}

// GetAllModels hands the raw roster to the aggregator, which needs model
// fields the response DTO drops.
func (s *userService) GetAllModels() ([]model.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch users")
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (s *userService) Create(req dto.UserCreateDTO) (*dto.UserResponseDTO, error) {
	role := req.Role
	if role == "" {
		role = "user"
	}
	user := model.User{
		Username:   req.Username,
		Password:   req.Password,
		Name:       req.Name,
		Email:      req.Email,
		Role:       role,
		Department: req.Department,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var resp dto.UserResponseDTO
	if err := copier.Copy(&resp, &user); err != nil {
		return nil, fmt.Errorf("failed to map created user: %w", err)
	}
	return &resp, nil
}

func (s *userService) Update(id uint, req dto.UserUpdateDTO) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	user.Username = req.Username
	user.Password = req.Password
	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	user.Department = req.Department

	if err := s.userRepo.Update(user); err != nil {
		log.Error().Err(err).Uint("userID", id).Msg("Failed to update user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	var resp dto.UserResponseDTO
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("failed to map updated user: %w", err)
	}
	return &resp, nil
}

func (s *userService) Delete(id uint) error {
	if err := s.userRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("userID", id).Msg("Failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
