package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

const dateLayout = "2006-01-02"

// GetUserID extracts the authenticated cashier from the Gin context. The zero
// UserID means no cashier.
func GetUserID(c *gin.Context) value.UserID {
	raw, exists := c.Get("user_id")
	if !exists {
		return value.UserID{}
	}
	id, ok := raw.(int64)
	if !ok {
		return value.UserID{}
	}
	userID, err := value.NewUserID(id)
	if err != nil {
		return value.UserID{}
	}
	return userID
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) string {
	return c.GetString("user_role")
}

func itemCodeParam(c *gin.Context) (value.ItemCode, error) {
	return value.NewItemCode(c.Param("code"))
}

// billNumberParam accepts either the plain sequence number or the BILL- label.
func billNumberParam(c *gin.Context) (value.BillNumber, error) {
	raw := strings.TrimPrefix(strings.ToUpper(c.Param("number")), "BILL-")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return value.BillNumber{}, apperror.NewFieldError("number", "bill number must be numeric")
	}
	return value.NewBillNumber(n)
}

// dateQuery parses ?<name>=YYYY-MM-DD, defaulting to today in UTC.
func dateQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, apperror.NewFieldError(name, "date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.NewFieldError(name, name+" must be a non-negative integer")
	}
	return n, nil
}
