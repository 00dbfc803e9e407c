package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPlanDocument(toEmail, sessionId, document string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// SendPlanDocument delivers the completed Emergency Operations Plan to the
// contact email recorded during the information section.
func (s *emailService) SendPlanDocument(toEmail, sessionId, document string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Emergency Operations Plan is ready")

	escaped := strings.ReplaceAll(document, "<", "&lt;")
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your Emergency Operations Plan</h2>
			<p>The questionnaire for session <b>%s</b> is complete. The assembled plan is below.</p>
			<pre style="white-space: pre-wrap; background: #f6f6f6; padding: 16px; border-radius: 4px;">%s</pre>
		</div>
	`, sessionId, escaped)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send plan document to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Plan document sent to %s\n", toEmail)
	return nil
}
