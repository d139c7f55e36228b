package handler

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v3"

	"group-points-bot/internal/config"
	"group-points-bot/internal/service"
	"group-points-bot/internal/store"
)

// ImageHandler handles the points-gated image commands.
type ImageHandler struct {
	images   *service.ImageService
	settings *store.SettingsStore
	cfg      *config.Config
}

// NewImageHandler creates an ImageHandler.
func NewImageHandler(images *service.ImageService, settings *store.SettingsStore, cfg *config.Config) *ImageHandler {
	return &ImageHandler{images: images, settings: settings, cfg: cfg}
}

// HandleNormal handles the 来张涩图 command.
func (h *ImageHandler) HandleNormal(c tele.Context) error {
	return h.handle(c, false)
}

// HandleR18 handles the 来张更涩的 command.
func (h *ImageHandler) HandleR18(c tele.Context) error {
	return h.handle(c, true)
}

func (h *ImageHandler) handle(c tele.Context, r18 bool) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	// Global switch first, then the per-group override.
	kind := store.ImageNormal
	globalEnabled := h.cfg.Image.NormalEnabled
	disabledMsg := "涩图功能已被管理员禁用"
	groupDisabledMsg := "本群已禁用涩图功能"
	if r18 {
		kind = store.ImageR18
		globalEnabled = h.cfg.Image.R18Enabled
		disabledMsg = "R18涩图功能已被管理员禁用"
		groupDisabledMsg = "本群已禁用R18涩图功能"
	}

	if !globalEnabled {
		return c.Reply(disabledMsg)
	}
	if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
		if !h.settings.ImageAllowed(chat.ID, kind, globalEnabled) {
			return c.Reply(groupDisabledMsg)
		}
	}

	res := h.images.Redeem(context.Background(), sender.ID, r18, time.Now())
	if !res.OK {
		return c.Reply(res.Message)
	}

	photo := &tele.Photo{
		File:    tele.FromURL(res.Image.URL),
		Caption: res.Message,
	}
	return c.Reply(photo)
}
