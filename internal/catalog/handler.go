package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sandeepk26/orbis-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ==============================
// Categories
// ==============================

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.service.ListCategories()
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Categories fetched", cats)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	cat, err := h.service.CreateCategory(req.Name, req.Slug)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "Category created", cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	cat, err := h.service.UpdateCategory(id, req.Name, req.Slug)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Category updated", cat)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	if err := h.service.DeleteCategory(id); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Category deleted", nil)
}

// ==============================
// Products
// ==============================

type productRequest struct {
	CategoryID uint    `json:"category_id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	Image      string  `json:"image"`
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(queryUint(c, "category_id"))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Products fetched", products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	p, err := h.service.GetProduct(id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Product fetched", p)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	p, err := h.service.CreateProduct(ProductInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "Product created", p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	p, err := h.service.UpdateProduct(id, ProductInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Product updated", p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	if err := h.service.DeleteProduct(id); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Product deleted", nil)
}

// ==============================
// Services
// ==============================

type serviceRequest struct {
	CategoryID      uint    `json:"category_id"`
	Name            string  `json:"name"`
	Slug            string  `json:"slug"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Description     string  `json:"description"`
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(queryUint(c, "category_id"))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Services fetched", services)
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	item, err := h.service.GetService(id)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Service fetched", item)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	item, err := h.service.CreateService(ServiceInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.Created(c, "Service created", item)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Fail(c, apperror.Validation("request body is not valid JSON"))
		return
	}
	item, err := h.service.UpdateService(id, ServiceInput(req))
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Service updated", item)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		apperror.Fail(c, err)
		return
	}
	if err := h.service.DeleteService(id); err != nil {
		apperror.Fail(c, err)
		return
	}
	apperror.OK(c, "Service deleted", nil)
}

func idParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("id must be a positive integer")
	}
	return uint(id), nil
}

func queryUint(c *gin.Context, name string) uint {
	if raw := c.Query(name); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return uint(id)
		}
	}
	return 0
}
