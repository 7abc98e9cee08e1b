package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmbook/internal/config"
)

type recordingClient struct {
	to     []string
	bodies []string
	err    error
}

func (r *recordingClient) SendText(_ context.Context, to, body string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.to = append(r.to, to)
	r.bodies = append(r.bodies, body)
	return "wamid", nil
}

func TestSendReport(t *testing.T) {
	c := &recordingClient{}
	n := NewNotifier(config.WhatsAppConfig{ReportRecipient: "62811"}, c, nil)

	require.NoError(t, n.SendReport(context.Background(), "weekly numbers"))
	assert.Equal(t, []string{"62811"}, c.to)
	assert.Equal(t, []string{"weekly numbers"}, c.bodies)

	require.NoError(t, n.SendReport(context.Background(), "  "))
	assert.Len(t, c.bodies, 1)
}

func TestSendReportError(t *testing.T) {
	boom := errors.New("rate limited")
	n := NewNotifier(config.WhatsAppConfig{ReportRecipient: "62811"}, &recordingClient{err: boom}, nil)

	assert.ErrorIs(t, n.SendReport(context.Background(), "x"), boom)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, SplitMessage("aaaa\nbbbb\ncccc", 10))
	assert.Equal(t, []string{"aaaaa", "aaaaa", "aa"}, SplitMessage(strings.Repeat("a", 12), 5))
}

func TestSplitMessageKeepsRunesWhole(t *testing.T) {
	parts := SplitMessage(strings.Repeat("é", 10), 5)
	assert.Equal(t, []string{"éé", "éé", "éé", "éé", "éé"}, parts)
	for _, p := range parts {
		assert.True(t, utf8.ValidString(p), p)
	}

	assert.Equal(t, []string{"🐟", "🐟"}, SplitMessage("🐟🐟", 2))
}
