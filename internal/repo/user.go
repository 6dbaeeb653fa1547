package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techlab_admin/internal/models"
	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password"`
	Name         string
	Role         string
	IsActive     bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

// toUser is the single read projection for users; it drops the hash and
// fills the defaults older records may lack.
func (u *userRecord) toUser() models.User {
	role := u.Role
	if role == "" {
		role = models.RoleCustomer
	}
	return models.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

var errUserNotFound = apperr.NotFound("user not found")

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var recs []userRecord
	if err := r.DB.WithContext(ctx).Order("created_at ASC, id ASC").Find(&recs).Error; err != nil {
		return nil, storeError("cannot read users", err)
	}
	users := make([]models.User, 0, len(recs))
	for i := range recs {
		users = append(users, recs[i].toUser())
	}
	return users, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	rec, err := r.findUser(ctx, r.DB.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		return nil, err
	}
	u := rec.toUser()
	return &u, nil
}

// FindCredentials is the only read path that returns the password hash.
func (r *GormRepo) FindCredentials(ctx context.Context, email string) (*models.UserCredentials, error) {
	rec, err := r.findUser(ctx, r.DB.WithContext(ctx).Where("email = ?", email))
	if err != nil {
		return nil, err
	}
	return &models.UserCredentials{User: rec.toUser(), PasswordHash: rec.PasswordHash}, nil
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&userRecord{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, storeError("cannot look up user by email", err)
	}
	return count > 0, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, nu models.NewUser) (*models.User, error) {
	now := r.now()
	rec := userRecord{
		ID:           uuid.NewString(),
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Name:         nu.Name,
		Role:         nu.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, storeError("cannot create user", err)
	}
	u := rec.toUser()
	return &u, nil
}

// UpdateUser merges patch into an existing user. The existence check and the
// write are separate statements.
func (r *GormRepo) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	rec, err := r.findUser(ctx, r.DB.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		return nil, err
	}

	changes := map[string]any{"updated_at": r.now()}
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Role != nil {
		changes["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		changes["is_active"] = *patch.IsActive
	}

	if err := r.DB.WithContext(ctx).Model(rec).Updates(changes).Error; err != nil {
		return nil, storeError("cannot update user", err)
	}
	return r.GetUser(ctx, id)
}

func (r *GormRepo) findUser(ctx context.Context, q *gorm.DB) (*userRecord, error) {
	var rec userRecord
	if err := q.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, storeError("cannot read user", err)
	}
	return &rec, nil
}
