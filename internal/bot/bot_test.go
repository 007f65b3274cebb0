package bot

import (
	"testing"

	tgModels "github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
)

const wallet = "EQCMryyDgKwd0d-ZS1UxWpP-1y-bjPnPD7KCrFhGDAKuOJnZ"

func TestWelcomeMessage(t *testing.T) {
	params := WelcomeMessage(42, "https://market.example")

	assert.Equal(t, int64(42), params.ChatID)
	markup, ok := params.ReplyMarkup.(*tgModels.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)

	button := markup.InlineKeyboard[0][0]
	assert.Equal(t, openButtonText, button.Text)
	require.NotNil(t, button.WebApp)
	assert.Equal(t, "https://market.example", button.WebApp.URL)
}

func TestCommands(t *testing.T) {
	assert.Len(t, Commands(false), 2)

	commands := Commands(true)
	require.Len(t, commands, 3)
	assert.Equal(t, "balance", commands[2].Command)
}

func TestDescription(t *testing.T) {
	assert.Contains(t, Description("https://market.example"), "Open marketplace: https://market.example")
}

func TestHelpMessage(t *testing.T) {
	params := HelpMessage(7)
	assert.Equal(t, int64(7), params.ChatID)
	assert.Contains(t, params.Text, "/balance")
}

func TestBalanceText(t *testing.T) {
	assert.Equal(t, "Balance of EQa: 1.50 TON", BalanceText(models.Balance{Address: "EQa", Balance: "1.50", Available: true}))
	assert.Contains(t, BalanceText(models.Balance{Balance: "0"}), "unavailable")
}

func TestParseBalanceCommand(t *testing.T) {
	address, err := parseBalanceCommand("/balance " + wallet)
	require.NoError(t, err)
	assert.Equal(t, wallet, address)

	_, err = parseBalanceCommand("/balance")
	assert.ErrorIs(t, err, errMissingAddress)
	assert.Equal(t, "Usage: /balance <TON address>", balanceErrorText(err))

	_, err = parseBalanceCommand("/balance nope")
	assert.ErrorIs(t, err, errInvalidAddress)
	assert.Equal(t, "Invalid TON wallet address", balanceErrorText(err))

	// checksum typo
	_, err = parseBalanceCommand("/balance EQCMryyDgKwd0d-ZS1UxWpP-1y-bjPnPD7KCrFhGDAKuOJAA")
	assert.ErrorIs(t, err, errInvalidAddress)
}
