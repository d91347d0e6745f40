package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bazaarlane/admin-backend/internal/http/response"
	"github.com/bazaarlane/admin-backend/internal/platform/ctxutil"
	"github.com/bazaarlane/admin-backend/internal/services"
)

// AddressHandler exposes the caller's own address book. The owner comes
// from the session, never the payload, and a row belonging to someone else
// answers exactly like a row that does not exist.
type AddressHandler struct {
	addressService services.AddressService
}

func NewAddressHandler(addressService services.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

// GET /api/addresses
func (h *AddressHandler) List(c *gin.Context) {
	ownerID, ok := sessionUserID(c)
	if !ok {
		return
	}
	addresses, err := h.addressService.List(c.Request.Context(), ownerID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"addresses": addresses})
}

// POST /api/addresses
func (h *AddressHandler) Create(c *gin.Context) {
	ownerID, ok := sessionUserID(c)
	if !ok {
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.addressService.Create(c.Request.Context(), ownerID, body)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"address": created})
}

// PUT /api/addresses/:id
func (h *AddressHandler) Update(c *gin.Context) {
	ownerID, ok := sessionUserID(c)
	if !ok {
		return
	}
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := h.addressService.Update(c.Request.Context(), ownerID, addressID, body)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"address": updated})
}

// DELETE /api/addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	ownerID, ok := sessionUserID(c)
	if !ok {
		return
	}
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.addressService.Delete(c.Request.Context(), ownerID, addressID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func sessionUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": "Authentication required", "code": "unauthorized"},
		})
		return uuid.Nil, false
	}
	return rd.UserID, true
}
