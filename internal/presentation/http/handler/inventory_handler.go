package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

// InventoryHandler handles stock intake, shelving and availability
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// ListAvailable lists the shelved, unexpired stock
// @Summary Available items
// @Tags items
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /items [get]
func (h *InventoryHandler) ListAvailable(c *gin.Context) {
	items, err := h.inventory.GetAvailableItems(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Available items retrieved", response.NewItemListResponse(items))
}

// Availability reports whether an item can be sold right now
// @Summary Item availability
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param code path string true "Item code"
// @Success 200 {object} response.APIResponse
// @Router /items/{code}/availability [get]
func (h *InventoryHandler) Availability(c *gin.Context) {
	code, err := itemCodeParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	available, err := h.inventory.IsItemAvailable(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Availability retrieved", gin.H{
		"code":      code.String(),
		"available": available,
	})
}

// AddStock records a delivery into the store room
// @Summary Add stock
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.AddStockRequest true "Stock intake"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /items/stock [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req request.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	code, err := value.NewItemCode(req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	price, err := value.MoneyOf(req.Price)
	if err != nil {
		response.Error(c, apperror.NewFieldError("price", "price is required"))
		return
	}
	var expiry *time.Time
	if req.ExpiryDate != "" {
		t, err := time.ParseInLocation(dateLayout, req.ExpiryDate, time.UTC)
		if err != nil {
			response.Error(c, apperror.NewFieldError("expiry_date", "date must be formatted as YYYY-MM-DD"))
			return
		}
		expiry = &t
	}

	item, err := h.inventory.AddStock(c.Request.Context(), service.AddStockInput{
		Code:       code,
		Name:       req.Name,
		Price:      price,
		Quantity:   req.Quantity,
		ExpiryDate: expiry,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Stock added", response.NewItemResponse(item))
}

// Shelve moves units of an item from the store room to the shelf
// @Summary Move to shelf
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Item code"
// @Param request body request.ShelveRequest true "Units to move"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /items/{code}/shelve [post]
func (h *InventoryHandler) Shelve(c *gin.Context) {
	code, err := itemCodeParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.ShelveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shelved, err := h.inventory.MoveToShelf(c.Request.Context(), code, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock moved to shelf", response.NewItemListResponse(shelved))
}
