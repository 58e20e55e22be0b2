package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/khanhnv2901/sitecheck-bot/internal/application/session"
)

// Handler receives decoded inbound events. *session.Router satisfies it.
type Handler interface {
	HandleCommand(ctx context.Context, cmd session.Command) error
	HandleText(ctx context.Context, msg session.TextMessage) error
	HandleCallback(ctx context.Context, press session.CallbackPress) error
}

// Poller feeds updates to a Handler with bounded concurrency.
type Poller struct {
	handler Handler
	workers int
	logger  *zap.Logger
}

// NewPoller returns a poller running up to workers events at once.
func NewPoller(handler Handler, workers int, logger *zap.Logger) *Poller {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{handler: handler, workers: workers, logger: logger}
}

// Run dispatches updates until ctx is cancelled or the channel closes, then
// waits for in-flight events. Events keep running after ctx is cancelled so a
// reply is not cut off halfway.
func (p *Poller) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	eventCtx := context.WithoutCancel(ctx)

	// Worker pool
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			// Acquire semaphore
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			wg.Add(1)
			go func(u tgbotapi.Update) {
				defer wg.Done()
				defer func() { <-sem }()
				p.handle(eventCtx, u)
			}(update)
		}
	}
}

func (p *Poller) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recovered from panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	if err := Dispatch(ctx, p.handler, update); err != nil {
		p.logger.Debug("update handled with error", zap.Int("update_id", update.UpdateID), zap.Error(err))
	}
}

// Dispatch converts one update into a session event and hands it to h.
// Updates that are neither commands, text nor button presses are ignored.
func Dispatch(ctx context.Context, h Handler, update tgbotapi.Update) error {
	if q := update.CallbackQuery; q != nil {
		press := session.CallbackPress{
			SenderID: senderID(q.From),
			QueryID:  q.ID,
			Payload:  q.Data,
		}
		if q.Message != nil {
			press.Message = session.MessageRef{ChatID: chatID(q.Message), MessageID: q.Message.MessageID}
			press.HasMedia = len(q.Message.Photo) > 0
		}
		return h.HandleCallback(ctx, press)
	}

	m := update.Message
	if m == nil {
		return nil
	}
	if m.IsCommand() {
		return h.HandleCommand(ctx, session.Command{
			Name:      m.Command(),
			SenderID:  senderID(m.From),
			ChatID:    chatID(m),
			MessageID: m.MessageID,
		})
	}
	if m.Text == "" {
		return nil
	}
	return h.HandleText(ctx, session.TextMessage{
		SenderID:  senderID(m.From),
		ChatID:    chatID(m),
		MessageID: m.MessageID,
		Text:      m.Text,
	})
}

func senderID(u *tgbotapi.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}

func chatID(m *tgbotapi.Message) int64 {
	if m == nil || m.Chat == nil {
		return 0
	}
	return m.Chat.ID
}
