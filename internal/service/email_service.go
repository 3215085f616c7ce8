package service

import (
	"context"
	"log/slog"

	"FinAI_Community/internal/model"
	"FinAI_Community/internal/pkg"
)

type sendFunc func(cfg pkg.SMTPConfig, to, subject, htmlBody string) error

// EmailNotifier 审核通过后发邮件
type EmailNotifier struct {
	cfg  pkg.SMTPConfig
	send sendFunc
}

func NewEmailNotifier(cfg pkg.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, send: pkg.SendEmail}
}

func (n *EmailNotifier) NotifyVerified(ctx context.Context, user *model.User) error {
	if !n.cfg.Enabled() {
		slog.DebugContext(ctx, "smtp disabled, skip verify mail", "user_id", user.ID)
		return nil
	}
	if user.Email == "" {
		return nil
	}
	return n.send(n.cfg, user.Email, "Your FinAI account is verified", pkg.VerifiedEmailHTML(user.Username))
}
