package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/swasthyaflow/backend/internal/auth/models"
	"github.com/swasthyaflow/backend/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	DB *sql.DB
}

func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{DB: db}
}

// Login verifies the credentials and issues a token valid for 12 hours.
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	var user models.User
	query := `SELECT id, username, password, role FROM user WHERE username = ?`
	err := s.DB.QueryRow(query, username).Scan(&user.ID, &user.Username, &user.Password, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Username, user.Role, time.Now().Add(12*time.Hour))
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %v", err)
	}
	return token, &user, nil
}

// Register creates a staff account with a bcrypt-hashed password.
func (s *AuthService) Register(username, password, role string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %v", err)
	}
	res, err := s.DB.Exec(`INSERT INTO user (username, password, role) VALUES (?, ?, ?)`, username, string(hash), role)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %v", err)
	}
	return res.LastInsertId()
}
