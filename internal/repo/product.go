package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techlab_admin/internal/models"
	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
)

type productRecord struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"not null"`
	Slug        string  `gorm:"index"`
	Price       float64 `gorm:"not null"`
	Category    *string
	Stock       *int
	Description *string
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRecord) TableName() string { return "products" }

func (p *productRecord) toProduct() models.Product {
	return models.Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

var errProductNotFound = apperr.NotFound("product not found")

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var recs []productRecord
	if err := r.DB.WithContext(ctx).Order("created_at ASC, id ASC").Find(&recs).Error; err != nil {
		return nil, storeError("cannot read products", err)
	}
	return toProducts(recs), nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	rec, err := r.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p := rec.toProduct()
	return &p, nil
}

// CreateProduct stores p with a fresh id, is_active=true and equal
// created_at/updated_at stamps, and returns the stored document.
func (r *GormRepo) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	now := r.now()
	rec := productRecord{
		ID:          uuid.NewString(),
		Name:        p.Name,
		Slug:        p.Slug,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Description: p.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, storeError("cannot create product", err)
	}
	return r.GetProduct(ctx, rec.ID)
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	rec, err := r.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{"updated_at": r.now()}
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Slug != nil {
		changes["slug"] = *patch.Slug
	}
	if patch.Price != nil {
		changes["price"] = *patch.Price
	}
	if patch.Category != nil {
		changes["category"] = *patch.Category
	}
	if patch.Stock != nil {
		changes["stock"] = *patch.Stock
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
	}
	if patch.IsActive != nil {
		changes["is_active"] = *patch.IsActive
	}

	if err := r.DB.WithContext(ctx).Model(rec).Updates(changes).Error; err != nil {
		return nil, storeError("cannot update product", err)
	}
	return r.GetProduct(ctx, id)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&productRecord{})
	if res.Error != nil {
		return storeError("cannot delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return errProductNotFound
	}
	return nil
}

// likeEscaper makes the search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchProducts is the store-side fallback for product search: a case
// insensitive substring match on name and description.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	where := r.DB.WithContext(ctx).Model(&productRecord{}).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\'`, pattern, pattern)

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, storeError("cannot count products", err)
	}

	var recs []productRecord
	if err := where.Session(&gorm.Session{}).Order("name ASC, id ASC").Offset(offset).Limit(limit).Find(&recs).Error; err != nil {
		return 0, nil, storeError("cannot search products", err)
	}
	return total, toProducts(recs), nil
}

func (r *GormRepo) findProduct(ctx context.Context, id string) (*productRecord, error) {
	var rec productRecord
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProductNotFound
		}
		return nil, storeError("cannot read product", err)
	}
	return &rec, nil
}

func toProducts(recs []productRecord) []models.Product {
	out := make([]models.Product, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toProduct())
	}
	return out
}
