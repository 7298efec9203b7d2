package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	if err != nil {
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Test page sent to printer", gin.H{"receipt": receipt})
}

// Receipt returns the receipt of a bill with its plain text rendering.
func (h *PrinterHandler) Receipt(c *gin.Context) {
	number, err := billNumberParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	receipt, text, err := h.printerService.Receipt(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved", gin.H{"receipt": receipt, "text": text})
}

// PrintBill prints the receipt of a stored bill. A printer failure still
// returns the receipt so the till can display it.
func (h *PrinterHandler) PrintBill(c *gin.Context) {
	number, err := billNumberParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	receipt, err := h.printerService.PrintBill(c.Request.Context(), number)
	if err != nil {
		if receipt == nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Receipt generated (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Receipt sent to printer", gin.H{"receipt": receipt})
}
