package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
	"github.com/Skotchmaster/techlab_admin/pkg/db"
)

// GormRepo is the adapter between the services and the document store. It is
// built once at start-up and shared by every request.
type GormRepo struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(gdb *gorm.DB) *GormRepo {
	return &GormRepo{DB: gdb, Now: func() time.Time { return time.Now().UTC() }}
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&userRecord{}, &productRecord{})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return db.Ping(ctx, r.DB)
}

func (r *GormRepo) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now()
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func storeError(msg string, err error) error {
	if isDuplicate(err) {
		return apperr.Conflict(msg + ": duplicate key")
	}
	return apperr.Upstream(msg, err)
}
