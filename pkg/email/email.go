package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// OrderLine is one line of an order confirmation
type OrderLine struct {
	Name     string
	Quantity int
	Total    string
}

// OrderConfirmation is the data rendered into an online order email
type OrderConfirmation struct {
	StoreName         string
	CustomerName      string
	BillNo            string
	TrackingToken     string
	DeliveryAddress   string
	EstimatedDelivery string
	Lines             []OrderLine
	Total             string
}

// Sender delivers rendered messages. The SMTP service and the no-op sender implement it.
type Sender interface {
	SendOrderConfirmation(to string, data OrderConfirmation) error
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// SendOrderConfirmation emails the tracking details of an online order
func (s *EmailService) SendOrderConfirmation(to string, data OrderConfirmation) error {
	htmlContent, err := RenderOrderConfirmation(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your order %s is on its way", data.BillNo)
	message := s.buildHTMLEmail(to, subject, htmlContent)

	return s.sendEmail(to, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

// RenderOrderConfirmation renders the order confirmation template
func RenderOrderConfirmation(data OrderConfirmation) (string, error) {
	tmpl, err := template.New("order_confirmation").Parse(orderConfirmationTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

type noopSender struct{}

// NewNoopSender returns a Sender that drops every message. Used when SMTP is not configured.
func NewNoopSender() Sender {
	return noopSender{}
}

func (noopSender) SendOrderConfirmation(string, OrderConfirmation) error {
	return nil
}

// orderConfirmationTemplate is the HTML template for online order emails
const orderConfirmationTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Order {{.BillNo}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="background-color: #2f855a; padding: 30px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 26px;">{{.StoreName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px;">
                <p style="color: #4a5568; font-size: 16px;">Hello {{.CustomerName}},</p>
                <p style="color: #4a5568; font-size: 16px;">
                    Thank you for your order <strong>{{.BillNo}}</strong>. It will be delivered to
                    <strong>{{.DeliveryAddress}}</strong> by <strong>{{.EstimatedDelivery}}</strong>.
                </p>
                <table role="presentation" style="width: 100%; border-collapse: collapse; margin: 20px 0;">
                    {{range .Lines}}
                    <tr>
                        <td style="padding: 6px 0; color: #4a5568;">{{.Quantity}} x {{.Name}}</td>
                        <td style="padding: 6px 0; color: #4a5568; text-align: right;">{{.Total}}</td>
                    </tr>
                    {{end}}
                    <tr>
                        <td style="padding: 10px 0; font-weight: 600;">Total</td>
                        <td style="padding: 10px 0; font-weight: 600; text-align: right;">{{.Total}}</td>
                    </tr>
                </table>
                <p style="color: #718096; font-size: 14px;">Tracking number: <strong>{{.TrackingToken}}</strong></p>
            </td>
        </tr>
    </table>
</body>
</html>
`
