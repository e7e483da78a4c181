package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
)

func (h *HTTPHandler) ListProducts(c *gin.Context) {
	products, err := h.svc.Catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.svc.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if !bindJSON(c, &product) {
		return
	}

	created, err := h.svc.Catalog.Create(c.Request.Context(), actorID(c), product)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var product domain.Product
	if !bindJSON(c, &product) {
		return
	}
	product.ID = id

	updated, err := h.svc.Catalog.Update(c.Request.Context(), actorID(c), product)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Catalog.Delete(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
