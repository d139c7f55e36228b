package handler

import (
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"group-points-bot/internal/config"
	"group-points-bot/internal/store"
)

// AdminHandler handles the group-level switch commands.
type AdminHandler struct {
	settings *store.SettingsStore
	cfg      *config.Config
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(settings *store.SettingsStore, cfg *config.Config) *AdminHandler {
	return &AdminHandler{settings: settings, cfg: cfg}
}

// guard checks the admin list and the group-only constraint shared by every
// switch command. It returns the group ID, or 0 after replying with the
// refusal.
func (h *AdminHandler) guard(c tele.Context) (int64, error) {
	sender := c.Sender()
	if sender == nil {
		return 0, nil
	}
	if !h.cfg.IsAdmin(sender.ID) {
		return 0, c.Reply("仅允许超级管理员执行此操作")
	}
	chat := c.Chat()
	if chat == nil || chat.Type == tele.ChatPrivate {
		return 0, c.Reply("此命令仅在群聊中可用")
	}
	return chat.ID, nil
}

// HandleTogglePlugin handles 开启群聊消息插件 / 关闭群聊消息插件.
func (h *AdminHandler) HandleTogglePlugin(c tele.Context, enable bool) error {
	groupID, err := h.guard(c)
	if groupID == 0 {
		return err
	}

	if !h.settings.SetGroupEnabled(groupID, enable) {
		if enable {
			return c.Reply("本群群聊消息插件已经是开启状态")
		}
		return c.Reply("本群群聊消息插件已经是关闭状态")
	}
	h.settings.Save()

	log.Info().Int64("group_id", groupID).Bool("enabled", enable).Msg("Plugin toggled for group")
	if enable {
		return c.Reply("已开启本群的群聊消息插件")
	}
	return c.Reply("已关闭本群的群聊消息插件")
}

// HandleToggleImage handles 开启/关闭 普通涩图|R18涩图 for the current group.
func (h *AdminHandler) HandleToggleImage(c tele.Context, kind store.ImageKind, enable bool) error {
	groupID, err := h.guard(c)
	if groupID == 0 {
		return err
	}

	h.settings.SetImageAllowed(groupID, kind, enable,
		h.cfg.Image.NormalEnabled, h.cfg.Image.R18Enabled)
	h.settings.Save()

	name := "普通涩图"
	if kind == store.ImageR18 {
		name = "R18涩图"
	}
	action := "开启"
	if !enable {
		action = "关闭"
	}

	log.Info().Int64("group_id", groupID).Str("kind", name).Bool("enabled", enable).Msg("Image permission toggled")
	return c.Reply(fmt.Sprintf("已%s本群的%s功能", action, name))
}
