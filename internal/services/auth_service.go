package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"minimart/internal/domain"
	"minimart/internal/repos"
)

var (
	ErrBadCreds     = errors.New("invalid credentials")
	ErrBadToken     = errors.New("not authorized")
	ErrEmailTaken   = repos.ErrEmailTaken
	ErrSellerExists = repos.ErrSellerExists
)

type AuthService struct {
	Users    *repos.UserRepo
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthService(users *repos.UserRepo, secret string, tokenDays int) *AuthService {
	return &AuthService{
		Users:    users,
		Secret:   []byte(secret),
		TokenTTL: time.Duration(tokenDays) * 24 * time.Hour,
	}
}

// Register creates a user (role defaults to Client) and returns it with a
// fresh token. Duplicate emails and a second Seller are rejected.
func (s *AuthService) Register(name, email, password, role string) (*domain.User, string, error) {
	if role == "" {
		role = domain.RoleClient
	}
	if role != domain.RoleClient && role != domain.RoleSeller {
		return nil, "", errors.New("invalid role")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(hash),
		Role:  role,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}
	tok, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login verifies the email/password pair. Unknown email and wrong password
// fail identically so accounts cannot be enumerated.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(s.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// UserFromToken verifies the bearer token and loads the referenced user.
// Fails when the token is invalid, expired, or the user no longer exists.
func (s *AuthService) UserFromToken(tokenString string) (*domain.User, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrBadToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrBadToken
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, ErrBadToken
	}
	u, err := s.Users.ByID(id)
	if err != nil {
		return nil, ErrBadToken
	}
	return u, nil
}
