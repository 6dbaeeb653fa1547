package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techlab_admin/internal/models"
	"github.com/Skotchmaster/techlab_admin/internal/service"
	"github.com/Skotchmaster/techlab_admin/internal/transport"
	"github.com/Skotchmaster/techlab_admin/internal/util"
	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
	"github.com/Skotchmaster/techlab_admin/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Svc.List(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("get_products_failed", "handler", "product.get_products", "status", 500, "error", err)
		return err
	}

	msg := "products fetched"
	if len(items) == 0 {
		msg = "no products registered"
	}
	return respondList(c, http.StatusOK, items, msg)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		l.Warn("get_product_failed", "status", apperr.Status(err), "product_id", id, "error", err)
		return err
	}
	return respond(c, http.StatusOK, p, "product fetched")
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		logging.FromContext(ctx).Warn("search_products_failed", "handler", "product.search", "status", apperr.Status(err), "error", err)
		return err
	}

	c.Response().Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	return respondList(c, http.StatusOK, items, "search completed")
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := bind(c, &req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.Create(ctx, service.CreateProductInput{
		Name:        req.Name,
		Price:       *req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, p, "product created")
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateProductRequest
	if err := bind(c, &req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	p, err := h.Svc.Update(ctx, id, models.ProductPatch{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		l.Warn("update_product_failed", "status", apperr.Status(err), "product_id", id, "error", err)
		return err
	}
	return respond(c, http.StatusOK, p, "product updated")
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		l.Warn("delete_product_failed", "status", apperr.Status(err), "product_id", id, "error", err)
		return err
	}
	return respond(c, http.StatusOK, transport.DeletedResponse{ID: id}, "product deleted")
}
