package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
)

// telegram message limit, with headroom
const messageLimit = 4000

// sender is the part of *tgbotapi.BotAPI the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// TelegramNotifier posts a summary of every placed order to the admin chat.
type TelegramNotifier struct {
	bot      sender
	chatID   int64
	threadID int
}

// NewTelegramNotifier connects the bot; with no token or chat it returns Noop.
func NewTelegramNotifier(token string, chatID int64, threadID int) repository.OrderNotifier {
	if strings.TrimSpace(token) == "" || chatID == 0 {
		return Noop{}
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[notify] telegram bot init failed, notifications disabled: %v", err)
		return Noop{}
	}
	log.Printf("[notify] admin notifications via @%s to chat %d", bot.Self.UserName, chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID, threadID: threadID}
}

// NotifyOrder sends the order summary, split into chunks when long.
func (n *TelegramNotifier) NotifyOrder(ctx context.Context, ord entity.Order) error {
	for _, chunk := range splitIntoChunks(FormatOrder(ord), messageLimit) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.send(chunk); err != nil {
			return fmt.Errorf("telegram notify order %s: %w", ord.ID, err)
		}
	}
	return nil
}

func (n *TelegramNotifier) send(text string) error {
	if n.threadID > 0 {
		// forum topics are not covered by MessageConfig
		params := make(tgbotapi.Params)
		params.AddNonZero64("chat_id", n.chatID)
		params.AddNonZero("message_thread_id", n.threadID)
		params.AddNonEmpty("text", text)
		_, err := n.bot.MakeRequest("sendMessage", params)
		return err
	}
	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text))
	return err
}

// FormatOrder plain-text admin summary of an order.
func FormatOrder(ord entity.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 New order %s\n", ord.ID)
	if ord.CustomerName != "" || ord.CustomerPhone != "" {
		fmt.Fprintf(&b, "Customer: %s", ord.CustomerName)
		if ord.CustomerPhone != "" {
			fmt.Fprintf(&b, " (%s)", ord.CustomerPhone)
		}
		b.WriteString("\n")
	}
	for _, it := range ord.Items {
		fmt.Fprintf(&b, "- %s × %d @ %s = %s\n", it.ItemName, it.Qty, it.MRP.StringFixed(2), it.Total().StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s (%d pcs)", ord.TotalPrice.StringFixed(2), ord.TotalQty)
	return b.String()
}

// splitIntoChunks matnni Telegram limitiga mos bo'lib yuborish uchun
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 || len(s) <= limit {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		if current.Len()+len(line) > limit && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// Noop drops notifications.
type Noop struct{}

func (Noop) NotifyOrder(context.Context, entity.Order) error { return nil }
