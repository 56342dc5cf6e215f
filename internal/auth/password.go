package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"secret-share/internal/models"
	"secret-share/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var ErrCredentialMismatch = errors.New("credential mismatch")

// Verifier 负责本地用户名/密码的注册与校验。
type Verifier struct {
	users *store.UserStore
	cost  int
}

func NewVerifier(users *store.UserStore, bcryptCost int) *Verifier {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Verifier{users: users, cost: bcryptCost}
}

// Verify checks the candidate password against the stored hash and returns
// the matching user. 无此用户返回 store.ErrNotFound，密码不对返回
// ErrCredentialMismatch，两者对外都当成“用户名或密码错误”。
func (v *Verifier) Verify(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// OAuth 专属账号没有本地密码，不能走密码登录
	if user.PasswordHash == "" {
		return nil, ErrCredentialMismatch
	}

	// bcrypt 比较本身就是常数时间的
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrCredentialMismatch
	}
	return user, nil
}

// Register creates a local user with the given credentials.
// 重名返回 store.ErrDuplicateUsername。
func (v *Verifier) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: empty username or password", ErrCredentialMismatch)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     &username,
		PasswordHash: string(hash),
	}
	if err := v.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
