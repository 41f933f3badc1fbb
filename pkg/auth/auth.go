package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	RoleLibrarian = "LIBRARIAN"
	RoleMember    = "MEMBER"

	DefaultTokenTTL = 24 * time.Hour
)

var (
	ErrNoPrincipal  = errors.New("unauthenticated")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	Profile struct {
		UserID   int64  `json:"userId"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    int64
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (p Principal) IsLibrarian() bool {
	return p.Role == RoleLibrarian
}

type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		key: []byte(secret),
		ttl: ttl,
		now: time.Now,
	}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs an HS256 token for the user.
func (m *TokenManager) Issue(userID int64, username, role string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	claims.Profile.UserID = userID
	claims.Profile.Username = username
	claims.Profile.Role = role

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "token.SignedString")
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) Parse(tokenStr string) (Principal, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Profile.UserID == 0 || claims.Profile.Role == "" {
		return Principal{}, ErrInvalidToken
	}

	p := Principal{
		UserID:   claims.Profile.UserID,
		Username: claims.Profile.Username,
		Role:     claims.Profile.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

type authKey struct{}

func SetAuthContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, authKey{}, p)
}

func GetPrincipal(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(authKey{}).(Principal)
	if !ok {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}

func IsLibrarian(ctx context.Context) bool {
	p, err := GetPrincipal(ctx)
	return err == nil && p.IsLibrarian()
}

// CanActFor reports whether the caller is a librarian or the user itself.
func CanActFor(ctx context.Context, userID int64) bool {
	p, err := GetPrincipal(ctx)
	if err != nil {
		return false
	}
	return p.IsLibrarian() || p.UserID == userID
}
