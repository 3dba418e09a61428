//go:generate go run go.uber.org/mock/mockgen -source=session_service.go -destination=../mocks/mock_session_service.go -package=mocks
package services

import (
	"arena-lab/auth"
	"fmt"
	"time"
)

// ISessionService issues and resolves the tokens clients use to resume a session.
type ISessionService interface {
	Issue(username string) (Token, error)
	Resume(token string) (string, error)
}

type Token string

func (t Token) String() string {
	return string(t)
}

type SessionService struct {
	secret   []byte
	duration time.Duration
}

func NewSessionService(secret string, duration time.Duration) ISessionService {
	return &SessionService{secret: []byte(secret), duration: duration}
}

func (s *SessionService) Issue(username string) (Token, error) {
	token, err := auth.GenerateToken(s.secret, username, s.duration)
	if err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	return Token(token), nil
}

// Resume returns the username carried by a valid token.
func (s *SessionService) Resume(token string) (string, error) {
	claims, err := auth.ValidateToken(s.secret, token)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
