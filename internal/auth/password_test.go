package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"secret-share/internal/database"
	"secret-share/internal/models"
	"secret-share/internal/store"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// 测试里用最低 cost，不然 bcrypt 会拖慢整个包
func newTestVerifier(t *testing.T) (*Verifier, *store.UserStore) {
	t.Helper()
	users := store.NewUserStore(newTestDB(t))
	return NewVerifier(users, bcrypt.MinCost), users
}

func TestRegisterThenVerify(t *testing.T) {
	v, _ := newTestVerifier(t)
	ctx := context.Background()

	created, err := v.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}
	if created.Username == nil || *created.Username != "alice" {
		t.Errorf("username = %v, want alice", created.Username)
	}
	if created.PasswordHash == "pw1" {
		t.Error("password stored in the clear")
	}

	got, err := v.Verify(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Verify() error = %v, want nil", err)
	}
	if got.ID != created.ID {
		t.Errorf("Verify() user id = %d, want %d", got.ID, created.ID)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	v, _ := newTestVerifier(t)
	ctx := context.Background()

	if _, err := v.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := v.Verify(ctx, "alice", "wrong")
	if !errors.Is(err, ErrCredentialMismatch) {
		t.Errorf("Verify() error = %v, want ErrCredentialMismatch", err)
	}
}

func TestVerify_UnknownUser(t *testing.T) {
	v, _ := newTestVerifier(t)

	_, err := v.Verify(context.Background(), "nobody", "pw1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Verify() error = %v, want store.ErrNotFound", err)
	}
}

// TestVerify_OAuthOnlyUser OAuth 专属账号没有本地密码，密码登录必须失败
func TestVerify_OAuthOnlyUser(t *testing.T) {
	v, users := newTestVerifier(t)
	ctx := context.Background()

	username := "oauth-only"
	user := models.User{Username: &username, GoogleID: &username}
	if err := users.Create(ctx, &user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := v.Verify(ctx, "oauth-only", "anything")
	if !errors.Is(err, ErrCredentialMismatch) {
		t.Errorf("Verify() error = %v, want ErrCredentialMismatch", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	v, users := newTestVerifier(t)
	ctx := context.Background()

	if _, err := v.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := v.Register(ctx, "alice", "pw2")
	if !errors.Is(err, store.ErrDuplicateUsername) {
		t.Errorf("Register() duplicate error = %v, want store.ErrDuplicateUsername", err)
	}

	// 失败的注册不能留下第二条记录
	if _, err := users.FindByUsername(ctx, "alice"); err != nil {
		t.Errorf("FindByUsername() after duplicate register error = %v", err)
	}
}

func TestRegister_EmptyInput(t *testing.T) {
	v, _ := newTestVerifier(t)
	ctx := context.Background()

	cases := []struct{ username, password string }{
		{"", "pw1"},
		{"alice", ""},
		{"   ", "pw1"},
	}
	for _, tc := range cases {
		if _, err := v.Register(ctx, tc.username, tc.password); err == nil {
			t.Errorf("Register(%q, %q) error = nil, want error", tc.username, tc.password)
		}
	}
}
