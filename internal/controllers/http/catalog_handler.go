package http

import (
	"net/http"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) ListProducts(c *gin.Context) {
	f, ok := productFilter(c)
	if !ok {
		return
	}
	h.listProducts(c, f)
}

func (h *Handler) listProducts(c *gin.Context, f domain.ProductFilter) {
	products, pagination, err := h.svc.Products.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ProductListResponse{Products: products, Pagination: pagination})
}

func (h *Handler) FeaturedProducts(c *gin.Context) {
	products, err := h.svc.Products.Featured(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.svc.Products.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": detail})
}

func (h *Handler) AddReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	review, err := h.svc.Products.AddReview(c.Request.Context(), caller(c).UserID, id, services.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *Handler) CategoryTree(c *gin.Context) {
	tree, err := h.svc.Categories.Tree(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": tree})
}

func productFilter(c *gin.Context) (domain.ProductFilter, bool) {
	f := domain.ProductFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sortBy", "created_at"),
		Desc:     !strings.EqualFold(c.DefaultQuery("order", "DESC"), "ASC"),
		Page:     pageFromQuery(c),
	}
	for param, dst := range map[string]**decimal.Decimal{"minPrice": &f.MinPrice, "maxPrice": &f.MaxPrice} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", param+" must be a number")
			return f, false
		}
		*dst = &d
	}
	return f, true
}
