package mailer

import (
	"fmt"
	"html"
	"time"

	"library-service-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendSignUp(toEmail string, joinedOn time.Time) error
	SendSubscriptionChange(toEmail, authorFullName string, subscribed bool, since time.Time) error
}

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string, log logger.ILogger) IEmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(host, port, username, password), senderEmail, senderName, log)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName string, log logger.ILogger) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
		logger:      log,
	}
}

func (s *emailService) newMessage(toEmail, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *emailService) send(kind, toEmail string, m *gomail.Message) error {
	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send email", map[string]interface{}{
			"kind":  kind,
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}
	s.logger.Info("MAILER", "Email sent", map[string]interface{}{
		"kind": kind,
		"to":   toEmail,
	})
	return nil
}

func (s *emailService) SendSignUp(toEmail string, joinedOn time.Time) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to the library!</h2>
			<p>Your account <b>%s</b> was created on %s.</p>
			<p>You can now borrow books and follow your favourite authors.</p>
		</div>
	`, html.EscapeString(toEmail), joinedOn.Format("2006-01-02"))

	return s.send("sign-up", toEmail, s.newMessage(toEmail, "Welcome to the library", body))
}

func (s *emailService) SendSubscriptionChange(toEmail, authorFullName string, subscribed bool, since time.Time) error {
	subject := fmt.Sprintf("You unsubscribed from %s", authorFullName)
	text := fmt.Sprintf("You will no longer receive news about <b>%s</b>.", html.EscapeString(authorFullName))
	if subscribed {
		subject = fmt.Sprintf("You subscribed to %s", authorFullName)
		text = fmt.Sprintf("You will receive news about new books by <b>%s</b>.", html.EscapeString(authorFullName))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>%s</p>
			<p>Subscription date: %s</p>
		</div>
	`, html.EscapeString(subject), text, since.Format("2006-01-02"))

	return s.send("subscription", toEmail, s.newMessage(toEmail, subject, body))
}
