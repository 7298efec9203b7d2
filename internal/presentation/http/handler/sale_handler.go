package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/domain/view"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/pagination"
)

// SaleHandler handles sales, stored bills and online orders
type SaleHandler struct {
	inventory *service.InventoryService
	reports   *service.ReportService
	orders    *service.OnlineOrderService
	printer   *service.PrinterService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(
	inventory *service.InventoryService,
	reports *service.ReportService,
	orders *service.OnlineOrderService,
	printer *service.PrinterService,
) *SaleHandler {
	return &SaleHandler{
		inventory: inventory,
		reports:   reports,
		orders:    orders,
		printer:   printer,
	}
}

// CreateSale rings up every line, completes the sale and saves the bill
// @Summary Create sale
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.SaleRequest true "Sale lines and cash"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req request.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	cash, err := value.MoneyOf(req.CashTendered)
	if err != nil {
		response.Error(c, apperror.NewFieldError("cash_tendered", "cash tendered is required"))
		return
	}

	sale := h.inventory.StartNewSale(GetUserID(c))
	for _, line := range req.Items {
		code, err := value.NewItemCode(line.Code)
		if err != nil {
			response.Error(c, err)
			return
		}
		if _, err := sale.AddItem(ctx, code, line.Quantity); err != nil {
			response.Error(c, err)
			return
		}
	}

	bill, err := sale.CompleteSale(cash)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.inventory.SaveBill(ctx, bill); err != nil {
		response.Error(c, err)
		return
	}

	data := gin.H{"bill": response.NewBillResponse(bill)}
	if req.Print {
		if _, err := h.printer.PrintBill(ctx, bill.Number()); err != nil {
			data["print_warning"] = err.Error()
		}
	}
	response.Created(c, "Sale completed", data)
}

// ListBills lists the bills of a day
// @Summary Bills of a day
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Param page query int false "Page number"
// @Param per_page query int false "Bills per page"
// @Success 200 {object} response.APIResponse
// @Router /bills [get]
func (h *SaleHandler) ListBills(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}

	params := pagination.Default()
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	report, err := h.reports.Bills(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	bills, page := pagination.Slice(report.Bills, params)
	response.OK(c, "Bills retrieved", gin.H{
		"date":       report.Date,
		"total":      report.Total,
		"bills":      bills,
		"pagination": page,
	})
}

// PlaceOnlineOrder presents a stored bill as an online order
// @Summary Online order
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param number path string true "Bill number"
// @Param request body request.OnlineOrderRequest true "Delivery details"
// @Success 201 {object} response.APIResponse
// @Router /bills/{number}/online [post]
func (h *SaleHandler) PlaceOnlineOrder(c *gin.Context) {
	number, err := billNumberParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.OnlineOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), &service.PlaceOrderInput{
		BillNumber: number,
		Contact:    view.Contact{Name: req.Name, Email: req.Email, Phone: req.Phone},
		Address:    req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Online order placed", response.NewOnlineOrderResponse(order))
}
