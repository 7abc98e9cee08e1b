package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/config"
	client "github.com/mamadbah2/farmbook/pkg/clients/whatsapp"
)

// MaxMessageLength is the Cloud API limit on a text message body.
const MaxMessageLength = 4096

const sendTimeout = 10 * time.Second

// Notifier delivers farm reports to the configured recipient.
type Notifier struct {
	client    client.Client
	recipient string
	logger    *zap.Logger
}

// NewNotifier wires a report notifier.
func NewNotifier(cfg config.WhatsAppConfig, c client.Client, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{client: c, recipient: cfg.ReportRecipient, logger: logger}
}

// SendReport sends the text, split on line boundaries when it is longer than
// one message allows.
func (n *Notifier) SendReport(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	for i, part := range SplitMessage(text, MaxMessageLength) {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		id, err := n.client.SendText(sendCtx, n.recipient, part)
		cancel()
		if err != nil {
			return fmt.Errorf("send report part %d: %w", i+1, err)
		}
		n.logger.Info("report delivered", zap.String("to", n.recipient), zap.String("message_id", id), zap.Int("part", i+1))
	}
	return nil
}

// SplitMessage breaks text into chunks of at most limit bytes, preferring to
// cut after a newline. A single line longer than limit is hard-cut on a character boundary.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var parts []string
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n')
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				_, cut = utf8.DecodeRuneInString(text)
			}
		}
		parts = append(parts, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
