package notifier

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sankalpm/applybot/internal/events"
	"github.com/sankalpm/applybot/internal/logger"
	log "github.com/sirupsen/logrus"
)

// Telegram pushes pipeline events to a single chat. It only listens; all
// control stays in the core services.
type Telegram struct {
	api    *botApi.BotAPI
	chatID int64
	bus    EventBus.Bus
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	n := &Telegram{api: api, chatID: chatID, bus: bus}

	if err = bus.Subscribe(events.JobMatchedTopic, n.onJobMatched); err != nil {
		return nil, err
	}
	if err = bus.Subscribe(events.ApplicationSubmittedTopic, n.onApplicationSubmitted); err != nil {
		return nil, err
	}

	return n, nil
}

func (n *Telegram) Close() {
	_ = n.bus.Unsubscribe(events.JobMatchedTopic, n.onJobMatched)
	_ = n.bus.Unsubscribe(events.ApplicationSubmittedTopic, n.onApplicationSubmitted)
}

func (n *Telegram) onJobMatched(event events.JobMatched) {
	n.send(fmt.Sprintf("Matched \"%v\" at %v, score %.2f", event.Title, event.Company, event.Score))
}

func (n *Telegram) onApplicationSubmitted(event events.ApplicationSubmitted) {
	if event.Success {
		n.send(fmt.Sprintf("Applied to \"%v\" at %v:\n%v", event.Title, event.Company, event.URL))
		return
	}
	n.send(fmt.Sprintf("Application to \"%v\" at %v failed: %v", event.Title, event.Company, event.Message))
}

func (n *Telegram) send(text string) {
	msg := botApi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("error occured while sending message: %v", err)
	}
}
