package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/themachinehf/atn-project/internal/config"
	"github.com/themachinehf/atn-project/internal/repository"
	"github.com/themachinehf/atn-project/internal/service"
	"github.com/themachinehf/atn-project/pkg/logger"
)

// Bot is the conversational command surface. It resolves handles to user
// ids and calls the same core operations as the HTTP API.
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *repository.UserRepository
	reputation  *service.ReputationService
	evaluation  *service.EvaluationService
	ranking     *service.RankingService
	pollTimeout int
}

func New(
	cfg *config.BotConfig,
	users *repository.UserRepository,
	reputation *service.ReputationService,
	evaluation *service.EvaluationService,
	ranking *service.RankingService,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Debug

	return &Bot{
		api:         api,
		users:       users,
		reputation:  reputation,
		evaluation:  evaluation,
		ranking:     ranking,
		pollTimeout: cfg.PollTimeout,
	}, nil
}

// Run consumes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	logger.WithField("bot", b.api.Self.UserName).Info("Bot started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logger.Info("Bot stopped")
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to send message:", err)
	}
}
