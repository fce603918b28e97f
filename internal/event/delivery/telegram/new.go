package telegram

import (
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"calendar-assistant/internal/event"
	pkgLog "calendar-assistant/pkg/log"
	pkgTelegram "calendar-assistant/pkg/telegram"
)

// seenUpdates bounds the dedupe cache for redelivered webhook updates.
const seenUpdates = 1024

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

type handler struct {
	l    pkgLog.Logger
	uc   event.UseCase
	bot  *pkgTelegram.Bot
	seen *lru.Cache[int64, struct{}]
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc event.UseCase, bot *pkgTelegram.Bot) Handler {
	seen, _ := lru.New[int64, struct{}](seenUpdates)
	return &handler{
		l:    l,
		uc:   uc,
		bot:  bot,
		seen: seen,
	}
}
