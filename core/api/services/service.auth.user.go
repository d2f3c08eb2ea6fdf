package services

import (
	"context"
	"strings"
	"time"

	"github.com/joaobaungartner/goncalves-backend/core/auth"
	"github.com/joaobaungartner/goncalves-backend/core/common"
	"github.com/joaobaungartner/goncalves-backend/core/database"
	"github.com/joaobaungartner/goncalves-backend/core/logger"

	"github.com/joaobaungartner/goncalves-backend/core/api/dto"
	models "github.com/joaobaungartner/goncalves-backend/core/api/models/mongodb"

	"go.mongodb.org/mongo-driver/bson"
)

// UserService handles user registration, login and lookup.
type UserService struct {
	BaseServiceMongo[models.User]
	issuer *auth.TokenIssuer
}

// NewUserService creates the user service over the store.
func NewUserService(store *database.Store, issuer *auth.TokenIssuer) *UserService {
	return &UserService{
		BaseServiceMongo: NewBaseServiceMongo[models.User](store.Users),
		issuer:           issuer,
	}
}

// NormalizeUsername trims and lowercases a username. All storage and
// lookups go through the normalized form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Create registers a user. Duplicate usernames answer 400 to match
// the public API contract.
func (s *UserService) Create(ctx context.Context, input *dto.UserCreateInput) (*dto.UserCreatedOutput, error) {
	username := NormalizeUsername(input.Username)
	if username == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "username é obrigatório.", common.StatusBadRequest, nil)
	}
	if len(input.Password) < 4 {
		return nil, common.NewError(common.ErrCodeValidationInput, "password deve ter pelo menos 4 caracteres.", common.StatusBadRequest, nil)
	}

	count, err := s.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Usuário já existe.", common.StatusBadRequest, nil)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.InsertOne(ctx, user); err != nil {
		return nil, err
	}

	logger.WithModuleAndCollection("auth", database.CollUsers).
		WithField("username", username).
		Info("User created")

	return &dto.UserCreatedOutput{Message: "Usuário criado.", Username: username}, nil
}

// Login verifies the credentials and issues a token. Wrong username
// and wrong password answer the same 401.
func (s *UserService) Login(ctx context.Context, input *dto.UserLoginInput) (*dto.TokenOutput, error) {
	username := NormalizeUsername(input.Username)
	if username == "" || input.Password == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "username e password são obrigatórios.", common.StatusBadRequest, nil)
	}

	user, err := s.FindOne(ctx, bson.M{"username": username})
	if err != nil || !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.issuer.Generate(user.Username)
	if err != nil {
		return nil, err
	}

	return &dto.TokenOutput{AccessToken: token, TokenType: "bearer"}, nil
}

// GetByUsername loads the user behind a validated token subject.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*dto.UserOutput, error) {
	user, err := s.FindOne(ctx, bson.M{"username": username})
	if err != nil {
		return nil, common.NewError(common.ErrCodeAuthToken, "Usuário não encontrado", common.StatusUnauthorized, nil)
	}
	return &dto.UserOutput{Username: user.Username, CreatedAt: user.CreatedAt}, nil
}
