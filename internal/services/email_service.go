package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendInviteEmail(email, nome, tempPassword string) error
	SendPasswordResetEmail(email, token string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	return &emailService{
		dialer: gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:   fromEmail,
	}
}

// SendInviteEmail is sent when an admin creates an account, carrying
// the temporary password the user must change.
func (s *emailService) SendInviteEmail(email, nome, tempPassword string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Sua conta no CRM foi criada")

	body := fmt.Sprintf(`
		<h2>Olá, %s!</h2>
		<p>Sua conta no CRM foi criada por um administrador.</p>
		<p>Sua senha temporária é: <strong>%s</strong></p>
		<p>Recomendamos alterá-la no primeiro acesso.</p>
	`, nome, tempPassword)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordResetEmail(email, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Redefinição de senha")

	body := fmt.Sprintf(`
		<h3>Redefinição de senha solicitada</h3>
		<p>Recebemos um pedido para redefinir a senha da sua conta.</p>
		<p>Use o seguinte código para criar uma nova senha: <strong>%s</strong></p>
		<p>Se você não solicitou a alteração, ignore este email.</p>
	`, token)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
