package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/Skotchmaster/techlab_admin/internal/events"
	"github.com/Skotchmaster/techlab_admin/internal/models"
	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
	"github.com/Skotchmaster/techlab_admin/pkg/logging"
)

type ProductService struct {
	Store  ProductStore
	Events events.Publisher
	// Index is nil when no search cluster is configured.
	Index ProductIndex
}

type CreateProductInput struct {
	Name        string
	Price       float64
	Category    *string
	Stock       *int
	Description *string
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.Store.ListProducts(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.Store.GetProduct(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "products.create")

	if err := checkProduct(&in.Name, &in.Price, in.Stock); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", err.Error())
		return nil, err
	}

	p, err := s.Store.CreateProduct(ctx, models.Product{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		Description: in.Description,
	})
	if err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, *p)
	publish(ctx, s.Events, events.TopicProducts, p.ID, events.Event{Type: events.ProductCreated, ID: p.ID, Data: p})
	l.Info("create_product_success", "product_id", p.ID)
	return p, nil
}

// Update merges patch into the product. A new name also gets a new slug.
func (s *ProductService) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "products.update", "product_id", id)

	if err := checkProduct(patch.Name, patch.Price, patch.Stock); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", err.Error())
		return nil, err
	}
	if patch.Name != nil {
		sl := slug.Make(*patch.Name)
		patch.Slug = &sl
	}

	p, err := s.Store.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.index(ctx, *p)
	publish(ctx, s.Events, events.TopicProducts, p.ID, events.Event{Type: events.ProductUpdated, ID: p.ID, Data: p})
	l.Info("update_product_success")
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "products.delete", "product_id", id)

	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_index_delete_failed", "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, id, events.Event{Type: events.ProductDeleted, ID: id})
	l.Info("delete_product_success")
	return nil
}

// Search queries the search index when there is one and falls back to a
// substring match in the store otherwise, or when the index is unreachable.
func (s *ProductService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, apperr.Validation("q", "search query is required")
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "svc", "products.search", "reason", "falling back to store", "error", err)
	}
	return s.Store.SearchProducts(ctx, q, offset, limit)
}

// Reindex copies every stored product into the search index, so products
// written before the index was configured become searchable. It stops at the
// first write the index rejects and reports how many documents it wrote.
func (s *ProductService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	items, err := s.Store.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	for i, p := range items {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			return i, apperr.Upstream("cannot index product "+p.ID, err)
		}
	}
	return len(items), nil
}

func (s *ProductService) index(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

// checkProduct repeats the request validation rules for callers that do not
// go through the HTTP layer. Nil fields are skipped.
func checkProduct(name *string, price *float64, stock *int) error {
	if name != nil && utf8.RuneCountInString(strings.TrimSpace(*name)) < 2 {
		return apperr.Validation("name", "product name must be at least 2 characters long")
	}
	if price != nil && *price < 0 {
		return apperr.Validation("price", "price must be a non-negative number")
	}
	if stock != nil && *stock < 0 {
		return apperr.Validation("stock", "stock must be a non-negative integer")
	}
	return nil
}
