package main

import (
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contactForm struct {
	FullName string `form:"fullName" binding:"required,max=200"`
	Email    string `form:"email" binding:"required,email,max=320"`
	Message  string `form:"message" binding:"required,max=5000"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Mailer delivers contact messages to the site owner
type Mailer interface {
	Send(msg ContactMessage) error
}

type smtpMailer struct {
	host, port string
	user, pass string
	to         string
}

func newSMTPMailer(cfg Config) *smtpMailer {
	return &smtpMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		to:   cfg.ToEmail,
	}
}

func (m *smtpMailer) Send(msg ContactMessage) error {
	if m.user == "" || m.pass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", msg.FullName)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form (%s)
`, msg.FullName, msg.Email, msg.Message, msg.ID)

	raw := []byte("To: " + m.to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.user + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.user, []string{m.to}, raw); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *site) saveMessage(msg ContactMessage) error {
	_, err := s.db.Exec(`
		INSERT INTO messages (id, full_name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.FullName, msg.Email, msg.Message, msg.CreatedAt)
	return err
}

// Handle contact form submission with HTMX
func (s *site) handleContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email address and a message.",
		})
		return
	}

	msg := ContactMessage{
		ID:        uuid.NewString(),
		FullName:  form.FullName,
		Email:     form.Email,
		Message:   form.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.saveMessage(msg); err != nil {
		log.Printf("Error storing contact message: %v", err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	// The message is stored, so a mail failure only delays the reply
	if err := s.mailer.Send(msg); err != nil {
		log.Printf("Error sending email for message %s: %v", msg.ID, err)
	} else {
		log.Printf("Email sent successfully for message %s", msg.ID)
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
