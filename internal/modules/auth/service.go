package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type jwtService interface {
	GenerateToken(subject, role string) (string, error)
}

// Service authenticates the dashboard administrator. There is a single
// operator account per deployment, configured through the environment.
type Service struct {
	adminEmail        string
	adminPasswordHash string
	jwt               jwtService
}

func NewService(adminEmail, adminPasswordHash string, jwt jwtService) *Service {
	return &Service{
		adminEmail:        strings.ToLower(strings.TrimSpace(adminEmail)),
		adminPasswordHash: adminPasswordHash,
		jwt:               jwt,
	}
}

// Login verifies the operator credentials and issues an access token.
func (s *Service) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	if email != s.adminEmail {
		// Keep timing in line with the password-mismatch path.
		bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwt.GenerateToken(email, "admin")
}
