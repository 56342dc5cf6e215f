package store

import (
	"context"
	"errors"
	"fmt"

	"secret-share/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 第三方登录提供方标识
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrUnknownProvider   = errors.New("unknown oauth provider")
)

// UserStore 封装对 users 表的读写。
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByID looks up a user by primary key.
func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByUsername looks up a local user by username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// Create inserts a new user record.
// 用户名撞唯一索引时返回 ErrDuplicateUsername（依赖 TranslateError）。
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindOrCreateByProvider returns the user holding the given provider subject id,
// creating a bare record when none exists yet.
//
// 必须是单条原子的 insert-if-absent：两个并发回调拿着同一个 subjectID
// 进来时只能落下一条记录，所以不能先查再插。
func (s *UserStore) FindOrCreateByProvider(ctx context.Context, provider, subjectID string) (*models.User, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return nil, err
	}

	fresh := models.User{}
	switch provider {
	case ProviderGoogle:
		fresh.GoogleID = &subjectID
	case ProviderFacebook:
		fresh.FacebookID = &subjectID
	}

	// 冲突（已有该 provider id）时什么都不做，随后统一读回权威记录
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: column}},
		DoNothing: true,
	}).Create(&fresh)
	if res.Error != nil {
		return nil, fmt.Errorf("upsert %s user: %w", provider, res.Error)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where(column+" = ?", subjectID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("read back %s user: %w", provider, err)
	}
	return &user, nil
}

// ListSecrets returns all non-null secrets, in whatever order the store yields.
func (s *UserStore) ListSecrets(ctx context.Context) ([]string, error) {
	var secrets []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("secret IS NOT NULL").
		Pluck("secret", &secrets).Error; err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	return secrets, nil
}

// SetSecret overwrites the secret of the identified user.
func (s *UserStore) SetSecret(ctx context.Context, id uint, secret string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("secret", secret)
	if res.Error != nil {
		return fmt.Errorf("set secret: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func providerColumn(provider string) (string, error) {
	switch provider {
	case ProviderGoogle:
		return "google_id", nil
	case ProviderFacebook:
		return "facebook_id", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}
