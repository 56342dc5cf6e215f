package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secret-share/internal/models"
	"secret-share/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSessionInvalid 表示令牌本身无效：签名错、过期、会话已吊销。
	ErrSessionInvalid = errors.New("session invalid")
	// ErrUnknownUser 表示令牌有效但用户记录已不存在，按未登录处理。
	ErrUnknownUser = errors.New("unknown user")
)

// SessionClaims 自定义 JWT 负载
type SessionClaims struct {
	UserID    uint   `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Codec turns an authenticated user into a session token and back.
// 令牌是 HS256 JWT，里面带会话行 ID；会话行落库，退出登录时吊销。
type Codec struct {
	secret   string
	ttl      time.Duration
	sessions *store.SessionStore
	users    *store.UserStore
}

func NewCodec(secret string, ttlHours int, sessions *store.SessionStore, users *store.UserStore) *Codec {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &Codec{
		secret:   secret,
		ttl:      time.Duration(ttlHours) * time.Hour,
		sessions: sessions,
		users:    users,
	}
}

// Issue creates a session for the user and returns the signed token.
// Called exactly once per successful authentication.
func (c *Codec) Issue(ctx context.Context, user *models.User) (string, error) {
	sess, err := c.sessions.Create(ctx, user.ID, c.ttl)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &SessionClaims{
		UserID:    user.ID,
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve maps a session token back to the full user record.
// 纯查询，无副作用，每个带令牌的请求都会走一遍。
func (c *Codec) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := c.parse(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	sess, err := c.sessions.Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if sess.Revoked || time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionInvalid
	}

	user, err := c.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// 用户记录被带外删除，令牌指向了不存在的人
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return user, nil
}

// Revoke invalidates the session referenced by the token (logout).
func (c *Codec) Revoke(ctx context.Context, token string) error {
	claims, err := c.parse(token)
	if err != nil {
		return ErrSessionInvalid
	}
	return c.sessions.Revoke(ctx, claims.SessionID)
}

func (c *Codec) parse(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(c.secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
