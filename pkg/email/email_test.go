package email

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOrderConfirmation(t *testing.T) {
	svc := NewEmailService(EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, FromName: "Shop", FromEmail: "shop@example.com"})

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}

	err := svc.SendOrderConfirmation("jane@example.com", OrderConfirmation{
		StoreName:     "Shop",
		CustomerName:  "Jane <script>",
		BillNo:        "BILL-000042",
		TrackingToken: "TRK-ABC",
		Lines:         []OrderLine{{Name: "Milk", Quantity: 2, Total: "5.00"}},
		Total:         "5.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Your order BILL-000042 is on its way")
	assert.Contains(t, string(gotMsg), "TRK-ABC")
	assert.Contains(t, string(gotMsg), "2 x Milk")
	assert.NotContains(t, string(gotMsg), "<script>")
}

func TestSendOrderConfirmationWrapsFailure(t *testing.T) {
	svc := NewEmailService(EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 25})
	boom := errors.New("connection refused")
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }

	err := svc.SendOrderConfirmation("a@example.com", OrderConfirmation{BillNo: "BILL-000001"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, NewNoopSender().SendOrderConfirmation("a@example.com", OrderConfirmation{}))
}
