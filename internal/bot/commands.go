package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/themachinehf/atn-project/internal/models"
	"github.com/themachinehf/atn-project/pkg/errors"
	"github.com/themachinehf/atn-project/pkg/logger"
)

// taskBonuses are the fixed score events available outside peer evaluation.
var taskBonuses = []struct {
	Name   string
	Points int
}{
	{"Verification Task", 50},
	{"Quality Check", 25},
	{"Community Help", 10},
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.cmdStart(ctx, msg)
	case "register":
		b.cmdRegister(ctx, msg)
	case "profile":
		b.cmdProfile(ctx, msg)
	case "score":
		b.cmdScore(ctx, msg)
	case "rep":
		b.cmdRep(ctx, msg)
	case "leaderboard":
		b.cmdLeaderboard(ctx, msg)
	case "evaluate":
		b.cmdEvaluate(ctx, msg)
	case "tasks":
		b.cmdTasks(msg)
	case "help":
		b.cmdHelp(msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

// ensureUser upserts the sender so every interaction has a user row.
func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*models.User, error) {
	return b.users.Upsert(ctx, from.ID, from.UserName, from.FirstName)
}

func (b *Bot) cmdStart(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		logger.Error("Failed to upsert user:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"🤖 Welcome to Agent Trust Network, %s!\n\n"+
			"Your decentralized AI Agent reputation system.\n\n"+
			"🌟 Earn reputation by completing tasks and helping others.\n"+
			"🎯 Build your AI Agent profile and track your reputation.\n\n"+
			"Use the menu below to get started:",
		user.FirstName,
	))
}

func (b *Bot) cmdRegister(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		logger.Error("Failed to upsert user:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	if err := b.users.SetAgent(ctx, user.UserID); err != nil {
		logger.Error("Failed to register agent:", err)
		b.reply(msg.Chat.ID, "Registration failed, please try again.")
		return
	}

	logger.WithField("user_id", user.UserID).Info("User registered as agent")

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"📝 Agent Registration for %s\n\n"+
			"ID: %d\nHandle: @%s\n\n"+
			"✅ You are now a verified agent!",
		user.FirstName, user.UserID, orNA(user.Username),
	))
}

func (b *Bot) cmdProfile(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		logger.Error("Failed to upsert user:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	stats, err := b.ranking.Stats(ctx, user.UserID)
	if err != nil {
		logger.Error("Failed to load stats:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	status := "🔹 Registered User"
	if stats.IsAgent {
		status = "✅ Verified Agent"
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"👤 Profile for %s\n\n"+
			"• ID: %d\n"+
			"• Handle: @%s\n"+
			"• Status: %s\n"+
			"• Reputation Score: ⭐ %d\n"+
			"• Rank: #%d\n"+
			"• Tasks Completed: ✅ %d\n"+
			"• Avg Rating: %.1f (%d evaluations)\n"+
			"• Registered: %s\n"+
			"• Last Active: %s",
		stats.FirstName, stats.UserID, orNA(stats.Username), status,
		stats.ReputationScore, stats.Rank, stats.TasksCompleted,
		stats.AvgRating, stats.EvaluationCount,
		user.RegisteredAt.Format("2006-01-02"), user.LastActive.Format("2006-01-02"),
	))
}

func (b *Bot) cmdScore(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		logger.Error("Failed to upsert user:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	stats, err := b.ranking.Stats(ctx, user.UserID)
	if err != nil {
		logger.Error("Failed to load stats:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	breakdown, err := b.ranking.Breakdown(ctx, user.UserID)
	if err != nil {
		logger.Error("Failed to load breakdown:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"⭐ Your Reputation Score\n\n"+
			"Current Score: %d\n"+
			"Grade: %s (%.0f%% to next tier)\n\n"+
			"📊 Score Breakdown:\n"+
			"• Tasks Completed: %d × 10 = %d\n"+
			"• Community Contributions: %d\n\n"+
			"💡 Tips to increase your score:\n"+
			"• Complete AI agent tasks\n"+
			"• Provide quality feedback\n"+
			"• Help other community members",
		stats.ReputationScore, stats.GradeTier, stats.TierProgress,
		stats.TasksCompleted, breakdown.TaskScore,
		stats.ReputationScore-breakdown.TaskScore,
	))
}

func (b *Bot) cmdRep(ctx context.Context, msg *tgbotapi.Message) {
	handle, err := parseRepArgs(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, err.Error())
		return
	}

	target, err := b.users.GetByUsername(ctx, handle)
	if err != nil {
		logger.Error("Failed to resolve handle:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if target == nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("I don't know anyone with the handle @%s yet.", handle))
		return
	}

	stats, err := b.ranking.Stats(ctx, target.UserID)
	if err != nil {
		logger.Error("Failed to load stats:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"⭐ Reputation for @%s\n\n"+
			"Score: %d\nGrade: %s\nRank: #%d\nAvg Rating: %.1f (%d evaluations)",
		handle, stats.ReputationScore, stats.GradeTier, stats.Rank,
		stats.AvgRating, stats.EvaluationCount,
	))
}

func (b *Bot) cmdLeaderboard(ctx context.Context, msg *tgbotapi.Message) {
	rows, err := b.ranking.Leaderboard(ctx, 5)
	if err != nil {
		logger.Error("Failed to load leaderboard:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	if len(rows) == 0 {
		b.reply(msg.Chat.ID, "🏆 Leaderboard\n\nNo agents registered yet. Be the first!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top Agents Leaderboard\n\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%d. %s: ⭐ %d (Tasks: %d)\n",
			row.Rank, row.FirstName, row.ReputationScore, row.TasksCompleted))
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) cmdEvaluate(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		logger.Error("Failed to upsert user:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	handle, rating, comment, err := parseEvaluateArgs(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, err.Error())
		return
	}

	target, err := b.users.GetByUsername(ctx, handle)
	if err != nil {
		logger.Error("Failed to resolve handle:", err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if target == nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("I don't know anyone with the handle @%s yet.", handle))
		return
	}

	result, err := b.evaluation.Submit(ctx, msg.From.ID, target.UserID, rating, comment, "general")
	if err != nil {
		if errors.HasCode(err, errors.ErrInvalidRating) {
			b.reply(msg.Chat.ID, "Rating must be between 1 and 5.")
			return
		}
		logger.Error("Failed to submit evaluation:", err)
		b.reply(msg.Chat.ID, "Evaluation failed, please try again.")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ Evaluation recorded!\n\n@%s received %d points (%d★).\nTheir score is now %d.",
		handle, result.ScoreAwarded, rating, result.NewScore,
	))
}

func (b *Bot) cmdTasks(msg *tgbotapi.Message) {
	var sb strings.Builder
	sb.WriteString("📋 Available Tasks\n\n")
	for _, task := range taskBonuses {
		sb.WriteString(fmt.Sprintf("🔹 %s (+%d pts)\n", task.Name, task.Points))
	}
	sb.WriteString("\nUse /register to start earning rewards!")
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) cmdHelp(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID,
		"❓ ATN Bot Help\n\n"+
			"Available Commands:\n"+
			"• /start - Start the bot\n"+
			"• /register - Register as an AI Agent\n"+
			"• /profile - View your profile\n"+
			"• /score - Check your reputation score\n"+
			"• /rep <handle> - Look up someone's reputation\n"+
			"• /leaderboard - Top agents\n"+
			"• /evaluate <handle> <rating> [comment] - Rate an agent\n"+
			"• /tasks - Available tasks\n"+
			"• /help - Show this help message",
	)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	msg := &tgbotapi.Message{
		From: cb.From,
		Chat: cb.Message.Chat,
	}

	switch cb.Data {
	case "register_agent":
		b.cmdRegister(ctx, msg)
	case "my_profile":
		b.cmdProfile(ctx, msg)
	case "reputation_info":
		b.cmdScore(ctx, msg)
	case "leaderboard":
		b.cmdLeaderboard(ctx, msg)
	case "tasks":
		b.cmdTasks(msg)
	case "help":
		b.cmdHelp(msg)
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		logger.Error("Failed to answer callback:", err)
	}
}

func orNA(username string) string {
	if username == "" {
		return "N/A"
	}
	return username
}
