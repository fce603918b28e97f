package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"calendar-assistant/internal/event"
	"calendar-assistant/internal/model"
	pkgResponse "calendar-assistant/pkg/response"
	pkgTelegram "calendar-assistant/pkg/telegram"
)

const startMessage = "👋 Hi! I'm your Calendar Bot.\n\n" +
	"Tell me about an event and I'll put it in your Google Calendar, e.g.:\n" +
	"_\"Set a meeting with Mikhail today at 17:00\"_\n\n" +
	"Commands:\n/today - show the rest of today's agenda\n/help - usage examples"

const helpMessage = "*How to use:*\n\n" +
	"Describe the event in one message, for example:\n" +
	"`Meeting with anna@example.com tomorrow at 09:30`\n" +
	"`Dentist on 2026-09-15 at 14:00 for 1.5 hours`\n\n" +
	"Dates can be `today`, `tomorrow` or an absolute date; time is 24-hour HH:MM."

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine: Telegram expects a response within a few seconds,
// while the LLM + calendar pipeline can take considerably longer.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err)
		return
	}

	// Ignore non-message updates (polls, channel_post, etc.)
	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	// Telegram redelivers updates it considers timed out. Without dedupe a
	// slow pipeline would create the same calendar event twice.
	if found, _ := h.seen.ContainsOrAdd(update.UpdateID, struct{}{}); found {
		pkgResponse.OK(c, map[string]string{"status": "duplicate"})
		return
	}

	// Snapshot the message before spawning the goroutine to avoid data races
	// on the gin context.
	msg := update.Message

	go func() {
		// Detach from the HTTP request context, which is cancelled after the response.
		bgCtx := context.Background()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message end to end, including the
// reply. The returned error only reports reply delivery failures; pipeline
// errors are turned into user-facing replies here.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	if msg.Text == "" {
		return nil
	}

	sc := scopeFromMessage(msg)

	switch strings.TrimSpace(msg.Text) {
	case "/start":
		return h.bot.SendMessageWithMode(ctx, msg.Chat.ID, startMessage, "Markdown")
	case "/help":
		return h.bot.SendMessageWithMode(ctx, msg.Chat.ID, helpMessage, "Markdown")
	case "/today":
		return h.replyAgenda(ctx, sc, msg.Chat.ID)
	}

	output, err := h.uc.Schedule(ctx, sc, event.ScheduleInput{
		RawText:        msg.Text,
		TelegramChatID: msg.Chat.ID,
	})
	if err != nil {
		h.l.Errorf(ctx, "telegram handler: Schedule failed: %v", err)
		return h.bot.SendMessage(ctx, msg.Chat.ID, userMessage(err))
	}

	reply := fmt.Sprintf("Event created: %s\nStarts %s\nView it here: %s",
		output.Title,
		output.StartTime.Format("Mon, 02 Jan 2006 15:04"),
		output.HTMLLink,
	)
	return h.bot.SendMessage(ctx, msg.Chat.ID, reply)
}

// replyAgenda sends the rest of today's agenda to the chat.
func (h *handler) replyAgenda(ctx context.Context, sc model.Scope, chatID int64) error {
	output, err := h.uc.Agenda(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "telegram handler: Agenda failed: %v", err)
		return h.bot.SendMessage(ctx, chatID, userMessage(err))
	}

	if output.Count == 0 {
		return h.bot.SendMessage(ctx, chatID, "Nothing left on your calendar today. 🎉")
	}

	var b strings.Builder
	b.WriteString("Today's remaining events:\n")
	for _, item := range output.Items {
		fmt.Fprintf(&b, "• %s %s\n", item.StartTime.Format("15:04"), item.Title)
	}
	return h.bot.SendMessage(ctx, chatID, b.String())
}

func scopeFromMessage(msg *pkgTelegram.Message) model.Scope {
	sc := model.Scope{}
	if msg.From != nil {
		sc.UserID = fmt.Sprintf("telegram_%d", msg.From.ID)
		sc.Username = msg.From.Username
	}
	return sc
}
