// Package notifier содержит уведомления администратора о проблемах мониторинга.
package notifier

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"igmonitor/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// poolAlertCooldown ограничивает частоту алертов об исчерпании пула
const poolAlertCooldown = 5 * time.Minute

// TelegramNotifier отправляет уведомления админу через Telegram Bot API
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	titler cases.Caser
	logger *zap.Logger

	mu            sync.Mutex
	lastPoolAlert time.Time
}

// NewTelegramNotifier создает новый уведомитель админа
func NewTelegramNotifier(botToken string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false
	logger.Info("Telegram notifier created", zap.String("bot_username", bot.Self.UserName))

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		titler: cases.Title(language.English),
		logger: logger,
	}, nil
}

// NotifyAccountInvalidated сообщает админу об инвалидации аккаунта
func (n *TelegramNotifier) NotifyAccountInvalidated(account *model.Account, invalidation model.InvalidationType) {
	state := n.titler.String(strings.ReplaceAll(invalidation.String(), "_", " "))
	text := fmt.Sprintf("⚠️ Account @%s marked invalid: %s", account.Username, state)
	n.send(text)
}

// NotifyPoolExhausted сообщает админу об исчерпании пула прокси.
// Алерты дебаунсятся: шторм исчерпанного пула не должен заспамить чат.
func (n *TelegramNotifier) NotifyPoolExhausted() {
	n.mu.Lock()
	if time.Since(n.lastPoolAlert) < poolAlertCooldown {
		n.mu.Unlock()
		return
	}
	n.lastPoolAlert = time.Now()
	n.mu.Unlock()

	n.send("🚨 Proxy pool exhausted: refresh runs are being skipped")
}

// send отправляет сообщение в чат админа
func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("Failed to send admin notification",
			zap.Int64("chat_id", n.chatID),
			zap.Error(err))
		return
	}

	n.logger.Debug("Admin notification sent", zap.String("text", text))
}

// Nop представляет уведомитель-заглушку, когда Telegram не настроен
type Nop struct{}

// NewNop создает уведомитель-заглушку
func NewNop() *Nop {
	return &Nop{}
}

// NotifyAccountInvalidated ничего не делает
func (n *Nop) NotifyAccountInvalidated(account *model.Account, invalidation model.InvalidationType) {}

// NotifyPoolExhausted ничего не делает
func (n *Nop) NotifyPoolExhausted() {}
