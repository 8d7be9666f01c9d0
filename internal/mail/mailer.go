package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ekartshop/backend/internal/models"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Outcome is order result reported to customer
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

const bodyHTML = `<html>
<body>
<h2>{{if .Success}}Thank you for your order!{{else}}Payment failed{{end}}</h2>
<p>Order <b>{{.OrderID}}</b>, total <b>{{.Total}}</b>.</p>
{{if .Success}}
<p>Your payment has been confirmed. We are preparing your order for shipping.</p>
{{else}}
<p>We could not confirm your payment. The order is kept on hold, please try
verifying the payment again.</p>
{{end}}
</body>
</html>`

var bodyTmpl = template.Must(template.New("order_email").Parse(bodyHTML))

type bodyData struct {
	OrderID string
	Total   string
	Success bool
}

// Config is SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends order outcome emails over SMTP
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewMailer creates new Mailer instance. Without credentials the mailer is
// disabled and all sends are no-ops.
func NewMailer(cfg Config, logger *zap.Logger) *Mailer {
	m := &Mailer{from: cfg.From, logger: logger}

	if cfg.Username == "" || cfg.Password == "" {
		logger.Info("mail credentials are not set, customer notifications are disabled")
		return m
	}

	m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return m
}

// Enabled reports whether mailer has credentials to send
func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// SendOrderEmail sends outcome email for order
func (m *Mailer) SendOrderEmail(order models.Order, outcome Outcome) error {
	if !m.Enabled() {
		return nil
	}

	var buf bytes.Buffer
	err := bodyTmpl.Execute(&buf, bodyData{
		OrderID: order.ID,
		Total:   FormatTotal(order.Total),
		Success: outcome == OutcomeSuccess,
	})
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", order.Email)
	msg.SetHeader("Subject", subject(order, outcome))
	msg.SetBody("text/html", buf.String())

	return m.dialer.DialAndSend(msg)
}

func subject(order models.Order, outcome Outcome) string {
	if outcome == OutcomeSuccess {
		return fmt.Sprintf("Order %s confirmed", order.ID)
	}
	return fmt.Sprintf("Payment for order %s failed", order.ID)
}

// FormatTotal renders minor currency units as decimal string
func FormatTotal(total int64) string {
	return fmt.Sprintf("%d.%02d", total/100, total%100)
}
