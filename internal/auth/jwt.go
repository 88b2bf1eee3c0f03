package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are what the API trusts about a caller. SessionID identifies one
// login; it keys the per-session onboarding cache and is discarded on logout.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	SessionID string
	ExpiresAt time.Time
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("JWT secret not set")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Generate issues a token for a new session.
func (t *Tokens) Generate(userID, email, role string) (string, *Claims, error) {
	if userID == "" {
		return "", nil, errors.New("empty userID passed to Generate")
	}

	c := &Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		SessionID: uuid.New().String(),
		ExpiresAt: time.Now().Add(t.ttl),
	}

	claims := jwt.MapClaims{
		"userID": c.UserID,
		"email":  c.Email,
		"role":   c.Role,
		"sid":    c.SessionID,
		"exp":    c.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, c, nil
}

func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	c := &Claims{}
	c.UserID, _ = mc["userID"].(string)
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	c.SessionID, _ = mc["sid"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	if c.UserID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
