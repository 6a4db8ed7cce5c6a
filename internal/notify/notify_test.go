package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"eventscout/internal/model"
)

type mockTelegramAPI struct {
	sent []string
	err  error
}

func (m *mockTelegramAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m.err != nil {
		return tgbotapi.Message{}, m.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendDigestNoChannels(t *testing.T) {
	n := &Notifier{log: testLogger(), topN: digestTopN}
	// With no channels configured there is nothing to fail.
	if !n.SendDigest(context.Background(), nil) {
		t.Error("digest with no configured channels should report success")
	}
}

func TestSendDigestTelegram(t *testing.T) {
	api := &mockTelegramAPI{}
	n := &Notifier{
		telegram: &TelegramChannel{api: api, chatID: 42},
		log:      testLogger(),
		topN:     digestTopN,
	}

	ok := n.SendDigest(context.Background(), sampleRanked(3))
	if !ok {
		t.Fatal("digest should succeed")
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(api.sent))
	}
}

func TestSendDigestTelegramFailure(t *testing.T) {
	api := &mockTelegramAPI{err: errors.New("telegram down")}
	n := &Notifier{
		telegram: &TelegramChannel{api: api, chatID: 42},
		log:      testLogger(),
		topN:     digestTopN,
	}

	if n.SendDigest(context.Background(), sampleRanked(1)) {
		t.Error("digest should report failure when the only channel fails")
	}
}

func TestSendConfirmationsSkipsFailures(t *testing.T) {
	api := &mockTelegramAPI{}
	n := &Notifier{
		telegram: &TelegramChannel{api: api, chatID: 42},
		log:      testLogger(),
		topN:     digestTopN,
	}

	results := []model.RegistrationResult{
		{Event: sampleRanked(1)[0], Success: true, ConfirmationData: map[string]any{"status": "confirmed"}},
		{Event: sampleRanked(1)[0], Success: false, ErrorMessage: "boom"},
	}
	n.SendConfirmations(results)

	if len(api.sent) != 1 {
		t.Fatalf("sent %d confirmations, want 1 (failed registrations are skipped)", len(api.sent))
	}
}
