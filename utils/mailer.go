package utils

import (
	"fmt"
	"log"
	"time"

	"CareLink/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. Implementations must be safe for
// concurrent use; services fire notifications from goroutines.
type Mailer interface {
	Send(to, subject, textBody, htmlBody string) error
}

// SMTPMailer delivers mail through the configured SMTP relay. When SMTP is
// not configured it degrades to a logged no-op so local setups work without
// a mail server.
type SMTPMailer struct {
	cfg *config.AppConfig
}

func NewSMTPMailer(cfg *config.AppConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, textBody, htmlBody string) error {
	if !m.cfg.MailEnabled() {
		log.Printf("SMTP not configured, skipping mail %q to %s", subject, to)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPUser)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	return d.DialAndSend(msg)
}

// ResetCodeMail builds the password reset message bodies.
func ResetCodeMail(code string) (subject, textBody, htmlBody string) {
	subject = "Password Reset Code"
	textBody = "Your password reset code is: " + code
	htmlBody = `<html><body>
	<h1>Password Reset Code</h1>
	<p>Your password reset code is:</p>
	<p style="font-weight:bold;color:#007bff;">` + code + `</p>
	<p>If you did not request a password reset, please ignore this email.</p>
	</body></html>`
	return subject, textBody, htmlBody
}

// AppointmentConfirmationMail builds the appointment confirmation bodies.
func AppointmentConfirmationMail(dateTime time.Time, doctorName string) (subject, textBody, htmlBody string) {
	when := dateTime.Format("Monday, 2 January 2006 at 15:04")
	subject = "Appointment Confirmation"
	textBody = fmt.Sprintf("Your appointment with %s is scheduled for %s.", doctorName, when)
	htmlBody = fmt.Sprintf(`<html><body>
	<h1>Appointment Confirmation</h1>
	<p>Your appointment with <b>%s</b> is scheduled for <b>%s</b>.</p>
	</body></html>`, doctorName, when)
	return subject, textBody, htmlBody
}

// OrderReceiptMail builds the order receipt bodies.
func OrderReceiptMail(orderID string, total float64) (subject, textBody, htmlBody string) {
	subject = "Order Receipt"
	textBody = fmt.Sprintf("Thank you for your order %s. Total charged: %.2f.", orderID, total)
	htmlBody = fmt.Sprintf(`<html><body>
	<h1>Order Receipt</h1>
	<p>Thank you for your order <b>%s</b>.</p>
	<p>Total charged: <b>%.2f</b></p>
	</body></html>`, orderID, total)
	return subject, textBody, htmlBody
}
