// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/slayk/storefront-admin/internal/config"
	"github.com/slayk/storefront-admin/internal/models"
)

type mailSender func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// NotificationService sends transactional email over SMTP.
type NotificationService struct {
	cfg      config.EmailConfig
	sendMail mailSender
}

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "₹" + d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.ShippingAddress.FirstName}}!</h2>
	<p>Your order <strong>{{.OrderNumber}}</strong> has been received and is {{.Status}}.</p>
	<table>
		{{range .Items}}<tr><td>{{.ProductName}}{{if .SelectedSize}} ({{.SelectedSize}}){{end}}</td><td>x{{.Quantity}}</td><td>{{money .Price}}</td></tr>
		{{end}}
	</table>
	<p>Subtotal: {{money .Subtotal}}<br>Shipping: {{money .Shipping}}<br><strong>Total: {{money .Total}}</strong></p>
	<p>Shipping to:<br>{{.ShippingAddress.FullName}}<br>{{.ShippingAddress.Address}}<br>{{.ShippingAddress.City}}, {{.ShippingAddress.State}} {{.ShippingAddress.Pincode}}</p>
</body>
</html>`))

func NewNotificationService(cfg config.EmailConfig) *NotificationService {
	return &NotificationService{
		cfg:      cfg,
		sendMail: smtp.SendMail,
	}
}

// Enabled reports whether an SMTP host is configured.
func (s *NotificationService) Enabled() bool {
	return s.cfg.SMTPHost != ""
}

func (s *NotificationService) SendOrderConfirmation(order *models.Order) error {
	var body bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&body, order); err != nil {
		return fmt.Errorf("failed to render order confirmation: %w", err)
	}

	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	return s.sendEmail(order.ShippingAddress.Email, subject, body.String())
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if !s.Enabled() {
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("SMTP not configured, skipping email")
		return nil
	}

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.FromEmail)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, mime.QEncoding.Encode("utf-8", subject), body,
	))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	return s.sendMail(addr, auth, s.cfg.FromEmail, []string{to}, msg)
}
