// Package notify runs the Telegram bot that serves the mini-app entry
// point to users.
package notify

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// MiniAppBot answers chat commands with a button opening the web app.
type MiniAppBot struct {
	bot       *tele.Bot
	webAppURL string
	log       zerolog.Logger
}

// NewMiniAppBot creates the bot and wires its command handlers.
func NewMiniAppBot(botToken, webAppURL string, log zerolog.Logger) (*MiniAppBot, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  botToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	m := &MiniAppBot{
		bot:       bot,
		webAppURL: webAppURL,
		log:       log,
	}

	bot.Handle("/start", m.handleStart)

	return m, nil
}

func (m *MiniAppBot) handleStart(c tele.Context) error {
	if m.webAppURL == "" {
		return c.Send("The app is not configured yet. Try again later.")
	}

	markup := &tele.ReplyMarkup{}
	open := markup.WebApp("🎬 Open Cinegram", &tele.WebApp{URL: m.webAppURL})
	markup.Inline(markup.Row(open))

	return c.Send("Welcome! Tap the button below to browse movies and shows.", markup)
}

// Start begins long polling. Blocks until Stop is called.
func (m *MiniAppBot) Start() {
	m.log.Info().Msg("telegram bot started")
	m.bot.Start()
}

// Stop halts long polling.
func (m *MiniAppBot) Stop() {
	m.bot.Stop()
}
