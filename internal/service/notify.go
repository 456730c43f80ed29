package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/sambright/nestegg/internal/model"
)

// NotifyService sends milestone-achieved congratulation mail via Resend.
// In development, or without an API key, it logs instead of sending so the
// rest of the write pipeline behaves identically.
type NotifyService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewNotifyService(apiKey, fromEmail, appName string, isDev bool) *NotifyService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &NotifyService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

// MilestoneAchieved notifies the owner that a milestone was crossed.
// Failures are reported to the caller but must never roll back the write
// that crossed the milestone.
func (s *NotifyService) MilestoneAchieved(email string, goal *model.Goal, m model.Milestone) error {
	if email == "" {
		slog.Info("milestone email skipped, no owner email configured", "goal", goal.ID)
		return nil
	}

	subject := fmt.Sprintf("%s: milestone reached on %q", s.appName, goal.Name)
	body := fmt.Sprintf("You crossed %.0f%% of your target (%.2f saved toward %.2f). Keep it up!",
		m.Percent, m.Amount, goal.Target)
	if m.Reward != "" {
		body += "\n\nYour reward: " + m.Reward
	}

	if s.client == nil {
		slog.Info("milestone email skipped (log mode)", "to", email, "subject", subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("milestone email sent", "to", email, "goal", goal.ID, "milestone", m.ID)
	}
	return err
}
