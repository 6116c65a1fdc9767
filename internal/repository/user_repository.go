package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskbot/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetOrCreate(ctx context.Context, id, username string) (*model.User, bool, error)
	UpdateRole(ctx context.Context, id, role string) error
	BulkUpsert(ctx context.Context, users []model.User) error
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// GetOrCreate возвращает существующего пользователя или создает нового с ролью member.
// Второе значение сообщает, была ли запись создана этим вызовом.
func (r *UserRepository) GetOrCreate(ctx context.Context, id, username string) (*model.User, bool, error) {
	var user model.User
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = model.User{
			ID:       id,
			Username: username,
			Role:     model.RoleMember,
		}
		created = true
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &user, created, nil
}

// UpdateRole sets the role of an existing user.
func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("role", role)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// BulkUpsert inserts every user, refreshing the username of existing rows.
// Roles of existing users are preserved; new rows get the member default.
func (r *UserRepository) BulkUpsert(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username"}),
	}).Create(&users).Error
}
