package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"misradcrm_backend/internals/configs"
)

// Mailer sends one message. Swapped for a fake in broadcast tests.
type Mailer interface {
	Send(to, subject, body string) error
}

// EdgeMailer posts to the external mail relay configured via MAILER_URL.
type EdgeMailer struct {
	URL     string
	Token   string
	Timeout time.Duration
}

func NewEdgeMailerFromEnv() (*EdgeMailer, error) {
	if configs.MailerURL == "" {
		return nil, errors.New("MAILER_URL is not set")
	}
	return &EdgeMailer{
		URL:     configs.MailerURL,
		Token:   configs.MailerToken,
		Timeout: 15 * time.Second,
	}, nil
}

type mailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (m *EdgeMailer) Send(to, subject, body string) error {
	agent := fiber.Post(m.URL)
	agent.Timeout(m.Timeout)
	if m.Token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+m.Token)
	}
	agent.JSON(mailPayload{To: to, Subject: subject, Body: body})

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("mailer returned status %d", code)
	}
	return nil
}
