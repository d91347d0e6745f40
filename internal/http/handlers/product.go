package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazaarlane/admin-backend/internal/http/response"
	"github.com/bazaarlane/admin-backend/internal/services"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var input services.ProductCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.productService.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"product": created})
}
