package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/orris-inc/berth/internal/domain/subscription"
	sharedConfig "github.com/orris-inc/berth/internal/shared/config"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// EmailOperatorNotifier mails operators when the port pool runs dry. It
// implements the allocation engine's OperatorNotifier interface.
type EmailOperatorNotifier struct {
	dialer     *gomail.Dialer
	from       string
	fromName   string
	recipients []string
	logger     logger.Interface
}

func NewEmailOperatorNotifier(emailCfg sharedConfig.EmailConfig, notifyCfg sharedConfig.NotifyConfig, logger logger.Interface) *EmailOperatorNotifier {
	dialer := gomail.NewDialer(emailCfg.SMTPHost, emailCfg.SMTPPort, emailCfg.SMTPUser, emailCfg.SMTPPassword)

	return &EmailOperatorNotifier{
		dialer:     dialer,
		from:       emailCfg.FromAddress,
		fromName:   emailCfg.FromName,
		recipients: notifyCfg.Recipients,
		logger:     logger,
	}
}

func (n *EmailOperatorNotifier) NotifyPoolExhausted(ctx context.Context, sub *subscription.Subscription) error {
	if len(n.recipients) == 0 {
		n.logger.Warnw("no notification recipients configured, skipping pool exhaustion alert",
			"subscription_id", sub.ID())
		return nil
	}

	subject := "Port pool exhausted"
	plainBody := fmt.Sprintf(`The port pool has no available ports left.

Subscription %s (customer %d) is waiting in pending allocation.
Add ports or release unused ones, then run the pending allocation sweep.
`, sub.SID(), sub.CustomerID())

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Port pool exhausted</h2>
			<p>The port pool has no available ports left.</p>
			<p>Subscription <b>%s</b> (customer %d) is waiting in pending allocation.</p>
			<p>Add ports or release unused ones, then run the pending allocation sweep.</p>
		</body>
		</html>
	`, sub.SID(), sub.CustomerID())

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.from, n.fromName))
	m.SetHeader("To", n.recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send pool exhaustion alert: %w", err)
	}

	n.logger.Infow("pool exhaustion alert sent",
		"subscription_id", sub.ID(), "recipients", len(n.recipients))
	return nil
}
