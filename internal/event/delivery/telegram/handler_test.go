package telegram_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"calendar-assistant/internal/event"
	"calendar-assistant/internal/event/delivery/telegram"
	"calendar-assistant/internal/model"
	"calendar-assistant/pkg/datemath"
	"calendar-assistant/pkg/llmprovider"
	pkgTelegram "calendar-assistant/pkg/telegram"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type mockUseCase struct {
	mu             sync.Mutex
	scheduleOutput event.ScheduleOutput
	scheduleErr    error
	scheduleCalls  int
	agendaOutput   event.AgendaOutput
	agendaErr      error
}

func (m *mockUseCase) Schedule(ctx context.Context, sc model.Scope, input event.ScheduleInput) (event.ScheduleOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleCalls++
	return m.scheduleOutput, m.scheduleErr
}

func (m *mockUseCase) Agenda(ctx context.Context, sc model.Scope) (event.AgendaOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agendaOutput, m.agendaErr
}

func (m *mockUseCase) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduleCalls
}

// capturedReplies collects texts posted to the fake Telegram sendMessage endpoint.
type capturedReplies struct {
	mu    sync.Mutex
	texts []string
}

func (c *capturedReplies) add(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
}

func (c *capturedReplies) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}

func (c *capturedReplies) waitFor(atLeast int, timeout time.Duration) []string {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if msgs := c.snapshot(); len(msgs) >= atLeast {
			return msgs
		}
		time.Sleep(20 * time.Millisecond)
	}
	return c.snapshot()
}

type testEnv struct {
	engine  *gin.Engine
	muc     *mockUseCase
	replies *capturedReplies
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	replies := &capturedReplies{}

	tgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/sendMessage") {
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			if text, ok := payload["text"].(string); ok {
				replies.add(text)
			}
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(tgServer.Close)

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(tgServer.URL)

	muc := &mockUseCase{}

	engine := gin.New()
	h := telegram.New(&mockLogger{}, muc, bot)
	engine.POST("/webhook/telegram", h.HandleWebhook)

	return &testEnv{engine: engine, muc: muc, replies: replies}
}

func sendWebhook(engine *gin.Engine, updateID int64, text string) *httptest.ResponseRecorder {
	update := pkgTelegram.Update{
		UpdateID: updateID,
		Message: &pkgTelegram.Message{
			MessageID: 1,
			Chat:      &pkgTelegram.Chat{ID: 123},
			From:      &pkgTelegram.User{ID: 456, Username: "anna"},
			Text:      text,
		},
	}
	body, _ := json.Marshal(update)
	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func assertContains(t *testing.T, msgs []string, substr string) {
	t.Helper()
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return
		}
	}
	t.Errorf("expected a reply containing %q, got: %v", substr, msgs)
}

func TestHandleWebhookInvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBufferString("{bad json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleWebhookNonMessageUpdate(t *testing.T) {
	env := newTestEnv(t)

	update := pkgTelegram.Update{UpdateID: 1, Message: nil}
	body, _ := json.Marshal(update)
	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	if msgs := env.replies.waitFor(1, 200*time.Millisecond); len(msgs) != 0 {
		t.Errorf("no replies expected for non-message updates, got: %v", msgs)
	}
}

func TestHandleWebhookDuplicateUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.muc.scheduleOutput = event.ScheduleOutput{
		Title:     "Meeting",
		StartTime: time.Now().Add(time.Hour),
		HTMLLink:  "https://calendar.google.com/event?eid=dup",
	}

	// Telegram redelivers on slow webhooks with the same update_id.
	for i := 0; i < 3; i++ {
		if w := sendWebhook(env.engine, 77, "Meeting today at 17:00"); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}

	env.replies.waitFor(1, 500*time.Millisecond)
	if got := env.muc.calls(); got != 1 {
		t.Errorf("redelivered update must be processed once, got %d Schedule calls", got)
	}
}

func TestHandleStart(t *testing.T) {
	env := newTestEnv(t)

	if w := sendWebhook(env.engine, 1, "/start"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	msgs := env.replies.waitFor(1, 500*time.Millisecond)
	assertContains(t, msgs, "Calendar Bot")
	if env.muc.calls() != 0 {
		t.Errorf("commands must not reach the scheduling pipeline")
	}
}

func TestHandleHelp(t *testing.T) {
	env := newTestEnv(t)

	if w := sendWebhook(env.engine, 1, "/help"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	assertContains(t, env.replies.waitFor(1, 500*time.Millisecond), "How to use")
}

func TestHandleToday(t *testing.T) {
	env := newTestEnv(t)
	env.muc.agendaOutput = event.AgendaOutput{
		Items: []event.AgendaItem{
			{Title: "Standup", StartTime: time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)},
		},
		Count: 1,
	}

	if w := sendWebhook(env.engine, 1, "/today"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	msgs := env.replies.waitFor(1, 500*time.Millisecond)
	assertContains(t, msgs, "Standup")
	assertContains(t, msgs, "09:30")
}

func TestHandleTodayEmpty(t *testing.T) {
	env := newTestEnv(t)

	if w := sendWebhook(env.engine, 1, "/today"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	assertContains(t, env.replies.waitFor(1, 500*time.Millisecond), "Nothing left on your calendar")
}

func TestHandleScheduleSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.muc.scheduleOutput = event.ScheduleOutput{
		Title:     "Meeting with Mikhail",
		StartTime: time.Date(2026, 8, 30, 17, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC),
		Attendee:  "Mikhail",
		HTMLLink:  "https://calendar.google.com/event?eid=abc123",
	}

	if w := sendWebhook(env.engine, 1, "Set a meeting with Mikhail today at 17:00"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	msgs := env.replies.waitFor(1, 500*time.Millisecond)
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one reply, got %d: %v", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0], "https://calendar.google.com/event?eid=abc123") {
		t.Errorf("reply must contain the provider link verbatim: %q", msgs[0])
	}
	assertContains(t, msgs, "Meeting with Mikhail")
}

func TestHandleScheduleNotUnderstood(t *testing.T) {
	env := newTestEnv(t)
	env.muc.scheduleErr = event.ErrNotUnderstood

	if w := sendWebhook(env.engine, 1, "asdf qwerty"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	msgs := env.replies.waitFor(1, 500*time.Millisecond)
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one error reply, got %d: %v", len(msgs), msgs)
	}
	assertContains(t, msgs, "couldn't understand")
}

func TestHandleSchedulePastEvent(t *testing.T) {
	env := newTestEnv(t)
	env.muc.scheduleErr = datemath.ErrPastEvent

	if w := sendWebhook(env.engine, 1, "meeting today at 03:00"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	assertContains(t, env.replies.waitFor(1, 500*time.Millisecond), "already passed")
}

func TestHandleScheduleCalendarRejected(t *testing.T) {
	env := newTestEnv(t)
	env.muc.scheduleErr = errors.New("calendar rejected the event: googleapi: Error 403: insufficient permissions")

	if w := sendWebhook(env.engine, 1, "meeting today at 17:00"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	msgs := env.replies.waitFor(1, 500*time.Millisecond)
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one error reply, got %d: %v", len(msgs), msgs)
	}
	assertContains(t, msgs, "Google Calendar rejected the event")
	assertContains(t, msgs, "insufficient permissions")
}

func TestHandleScheduleLLMUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.muc.scheduleErr = llmprovider.ErrAllProvidersFailed

	if w := sendWebhook(env.engine, 1, "meeting today at 17:00"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	assertContains(t, env.replies.waitFor(1, 500*time.Millisecond), "try again")
}

func TestHandleEmptyText(t *testing.T) {
	env := newTestEnv(t)

	if w := sendWebhook(env.engine, 1, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if msgs := env.replies.waitFor(1, 200*time.Millisecond); len(msgs) != 0 {
		t.Errorf("no reply expected for empty text, got: %v", msgs)
	}
	if env.muc.calls() != 0 {
		t.Errorf("empty text must not reach the scheduling pipeline")
	}
}
