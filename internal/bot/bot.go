// Package bot runs the Telegram bot that opens the marketplace web app.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/logger"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/validation"
)

const (
	commandStart   = "/start"
	commandHelp    = "/help"
	commandBalance = "/balance"

	openButtonText = "🚀 Open Marketplace"

	balanceUsageText   = "Usage: /balance <TON address>"
	invalidAddressText = "Invalid TON wallet address"
)

var (
	errMissingAddress = errors.New("missing address argument")
	errInvalidAddress = errors.New("invalid wallet address")
)

// BalanceReader is the part of the marketplace the bot needs.
type BalanceReader interface {
	Balance(ctx context.Context, address string) models.Balance
}

type Bot struct {
	logger    *logger.Logger
	client    *tgbot.Bot
	webAppURL string

	balances BalanceReader
}

// New creates the bot and registers its command handlers. balances may be nil,
// in which case /balance is not offered.
func New(logger *logger.Logger, token, webAppURL string, balances BalanceReader) (*Bot, error) {
	b := &Bot{
		logger:    logger,
		webAppURL: webAppURL,
		balances:  balances,
	}

	client, err := tgbot.New(token, tgbot.WithDefaultHandler(b.defaultHandler))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	client.RegisterHandler(tgbot.HandlerTypeMessageText, commandStart, tgbot.MatchTypePrefix, b.startHandler)
	client.RegisterHandler(tgbot.HandlerTypeMessageText, commandHelp, tgbot.MatchTypePrefix, b.helpHandler)
	if balances != nil {
		client.RegisterHandler(tgbot.HandlerTypeMessageText, commandBalance, tgbot.MatchTypePrefix, b.balanceHandler)
	}
	b.client = client

	return b, nil
}

// Setup publishes the command list and the bot description.
func (b *Bot) Setup(ctx context.Context) error {
	if _, err := b.client.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: Commands(b.balances != nil)}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	if _, err := b.client.SetMyDescription(ctx, &tgbot.SetMyDescriptionParams{Description: Description(b.webAppURL)}); err != nil {
		return fmt.Errorf("failed to set bot description: %w", err)
	}
	b.logger.Info("Bot setup completed", "webAppURL", b.webAppURL)
	return nil
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("Telegram bot is running")
	b.client.Start(ctx)
}

func (b *Bot) send(ctx context.Context, params *tgbot.SendMessageParams) {
	if _, err := b.client.SendMessage(ctx, params); err != nil {
		b.logger.Error("Failed to send telegram message", "chatID", params.ChatID, "error", err)
	}
}

func (b *Bot) startHandler(ctx context.Context, _ *tgbot.Bot, update *tgModels.Update) {
	if update.Message == nil {
		return
	}
	b.logger.Debug("Telegram /start", "chatID", update.Message.Chat.ID)
	b.send(ctx, WelcomeMessage(update.Message.Chat.ID, b.webAppURL))
}

func (b *Bot) helpHandler(ctx context.Context, _ *tgbot.Bot, update *tgModels.Update) {
	if update.Message == nil {
		return
	}
	b.send(ctx, HelpMessage(update.Message.Chat.ID))
}

func (b *Bot) balanceHandler(ctx context.Context, _ *tgbot.Bot, update *tgModels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	address, err := parseBalanceCommand(update.Message.Text)
	if err != nil {
		b.send(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: balanceErrorText(err)})
		return
	}
	b.send(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: BalanceText(b.balances.Balance(ctx, address))})
}

func (b *Bot) defaultHandler(_ context.Context, _ *tgbot.Bot, update *tgModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	b.logger.Debug("Unhandled telegram message", "username", update.Message.From.Username, "text", update.Message.Text)
}

// Commands is the command list shown in the Telegram client.
func Commands(withBalance bool) []tgModels.BotCommand {
	commands := []tgModels.BotCommand{
		{Command: "start", Description: "Start the bot and open marketplace"},
		{Command: "help", Description: "Get help about the marketplace"},
	}
	if withBalance {
		commands = append(commands, tgModels.BotCommand{Command: "balance", Description: "Show the TON balance of a wallet"})
	}
	return commands
}

// Description is the text shown on the empty chat screen.
func Description(webAppURL string) string {
	return "TON NFT Marketplace - Buy and sell NFTs with TON cryptocurrency\n\nOpen marketplace: " + webAppURL
}

// WelcomeMessage answers /start with a button opening the web app.
func WelcomeMessage(chatID int64, webAppURL string) *tgbot.SendMessageParams {
	return &tgbot.SendMessageParams{
		ChatID: chatID,
		Text: "🎭 Welcome to TON NFT Marketplace!\n\n" +
			"Tap the button below to open the marketplace and start trading NFTs with TON cryptocurrency.",
		ReplyMarkup: &tgModels.InlineKeyboardMarkup{
			InlineKeyboard: [][]tgModels.InlineKeyboardButton{{
				{Text: openButtonText, WebApp: &tgModels.WebAppInfo{URL: webAppURL}},
			}},
		},
	}
}

// HelpMessage answers /help.
func HelpMessage(chatID int64) *tgbot.SendMessageParams {
	return &tgbot.SendMessageParams{
		ChatID: chatID,
		Text: "🤖 TON NFT Marketplace Bot Help\n\n" +
			"• Use /start to open the marketplace\n" +
			"• Connect your TON wallet to buy NFTs\n" +
			"• Use /balance <address> to check a wallet balance",
	}
}

// BalanceText renders a balance lookup result.
func BalanceText(b models.Balance) string {
	if !b.Available {
		return "Balance is unavailable right now, please try again later."
	}
	return fmt.Sprintf("Balance of %s: %s TON", b.Address, b.Balance)
}

func parseBalanceCommand(text string) (string, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", errMissingAddress
	}
	address, err := validation.ValidateAndNormalizeAddress(fields[1])
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidAddress, err)
	}
	return address, nil
}

// balanceErrorText turns a parse error into the reply shown to the user.
func balanceErrorText(err error) string {
	if errors.Is(err, errMissingAddress) {
		return balanceUsageText
	}
	return invalidAddressText
}
