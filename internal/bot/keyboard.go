package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 Register as Agent", "register_agent"),
			tgbotapi.NewInlineKeyboardButtonData("📊 My Profile", "my_profile"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ Reputation", "reputation_info"),
			tgbotapi.NewInlineKeyboardButtonData("📈 Leaderboard", "leaderboard"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Available Tasks", "tasks"),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", "help"),
		),
	)
}
