package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"group-points-bot/internal/config"
	"group-points-bot/internal/game/robbery"
	"group-points-bot/internal/service"
)

var numberPattern = regexp.MustCompile(`\d+`)

// parseRewardAmount reads the grant amount as the last number appearing in
// the command text. Returns 0 when the text carries no number.
func parseRewardAmount(text string) int64 {
	numbers := numberPattern.FindAllString(text, -1)
	if len(numbers) == 0 {
		return 0
	}
	amount, _ := strconv.ParseInt(numbers[len(numbers)-1], 10, 64)
	return amount
}

// RobberyHandler handles the robbery game and the admin reward grant.
type RobberyHandler struct {
	engine   *robbery.Engine
	accounts *service.AccountService
	cfg      *config.Config
}

// NewRobberyHandler creates a RobberyHandler.
func NewRobberyHandler(engine *robbery.Engine, accounts *service.AccountService, cfg *config.Config) *RobberyHandler {
	return &RobberyHandler{engine: engine, accounts: accounts, cfg: cfg}
}

// HandleRob handles the 抢劫 command. The target comes from a mention or a
// reply; precondition ordering lives in the engine.
func (h *RobberyHandler) HandleRob(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	res := h.engine.Rob(sender.ID, resolveTarget(c), time.Now())
	if res.Applied {
		log.Info().
			Int64("robber_id", sender.ID).
			Bool("success", res.Success).
			Int64("amount", res.Amount).
			Float64("success_rate", res.SuccessRate).
			Msg("Robbery attempt")
	}
	return c.Reply(res.Message)
}

// HandleReward handles the 奖励 command (admin only).
// Format: 奖励 @user <amount>; the amount is read as the last number in the
// message text, which can misfire when other digits follow it.
func (h *RobberyHandler) HandleReward(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if !h.cfg.IsAdmin(sender.ID) {
		return c.Reply("仅允许超级管理员执行此操作")
	}

	targetID := resolveTarget(c)
	if targetID == 0 {
		return c.Reply("请使用 @ 指定要奖励的用户")
	}

	amount := parseRewardAmount(c.Text())

	balance, err := h.accounts.Grant(targetID, amount, sender.ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.Reply("请指定有效的积分数量（正整数）")
		}
		return c.Reply("操作失败，请稍后重试")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Int64("amount", amount).
		Msg("Reward granted")

	return c.Reply(fmt.Sprintf("已成功奖励 %d 积分\n当前积分：%d 分", amount, balance))
}
