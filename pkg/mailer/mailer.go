// Package mailer 提供邮件发送能力
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/config"
)

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender 基于 SMTP 的邮件发送器
type SMTPSender struct {
	cfg *config.MailConfig
}

// NewSMTPSender 创建 SMTP 发送器
func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send 发送一封纯文本邮件
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// NopSender 空实现，邮件功能未启用时使用
type NopSender struct{}

// Send 丢弃邮件
func (NopSender) Send(ctx context.Context, to, subject, body string) error {
	return nil
}
