package bot

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"group-points-bot/internal/config"
	"group-points-bot/internal/handler"
	"group-points-bot/internal/store"
)

// Dependencies holds everything the bot's handlers need.
type Dependencies struct {
	Config   *config.Config
	Settings *store.SettingsStore
	Economy  *handler.EconomyHandler
	Robbery  *handler.RobberyHandler
	Image    *handler.ImageHandler
	Admin    *handler.AdminHandler
}

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot      *tele.Bot
	cfg      *config.Config
	settings *store.SettingsStore

	economy *handler.EconomyHandler
	robbery *handler.RobberyHandler
	image   *handler.ImageHandler
	admin   *handler.AdminHandler
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:      teleBot,
		cfg:      deps.Config,
		settings: deps.Settings,
		economy:  deps.Economy,
		robbery:  deps.Robbery,
		image:    deps.Image,
		admin:    deps.Admin,
	}

	b.bot.Use(LoggingMiddleware())
	b.bot.Handle(tele.OnText, b.route)

	return b, nil
}

// route dispatches the plain-text command surface. The group-level switch
// commands stay reachable in disabled groups so admins can re-enable the bot;
// everything else is suppressed silently there.
func (b *Bot) route(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	switch text {
	case "开启群聊消息插件":
		return b.admin.HandleTogglePlugin(c, true)
	case "关闭群聊消息插件":
		return b.admin.HandleTogglePlugin(c, false)
	case "开启普通涩图":
		return b.admin.HandleToggleImage(c, store.ImageNormal, true)
	case "关闭普通涩图":
		return b.admin.HandleToggleImage(c, store.ImageNormal, false)
	case "开启R18涩图":
		return b.admin.HandleToggleImage(c, store.ImageR18, true)
	case "关闭R18涩图":
		return b.admin.HandleToggleImage(c, store.ImageR18, false)
	}

	// The reward grant is admin-scoped, not group-scoped.
	if strings.HasPrefix(text, "奖励") {
		return b.robbery.HandleReward(c)
	}

	if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
		if !b.settings.IsGroupEnabled(chat.ID) {
			return nil
		}
	}

	switch text {
	case "签到":
		return b.economy.HandleCheckin(c)
	case "积分", "我的积分":
		return b.economy.HandlePoints(c)
	case "积分记录":
		return b.economy.HandleHistory(c)
	case "来张涩图":
		return b.image.HandleNormal(c)
	case "来张更涩的":
		return b.image.HandleR18(c)
	}

	if strings.HasPrefix(text, "抢劫") {
		return b.robbery.HandleRob(c)
	}

	return nil
}

// Start begins polling for updates. It blocks until Stop is called.
func (b *Bot) Start() {
	b.bot.Start()
}

// Stop gracefully stops the bot.
func (b *Bot) Stop() {
	b.bot.Stop()
}
