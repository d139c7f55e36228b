package handler

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"group-points-bot/internal/service"
)

// EconomyHandler handles the check-in and account query commands.
type EconomyHandler struct {
	checkin  *service.CheckinService
	accounts *service.AccountService
}

// NewEconomyHandler creates an EconomyHandler.
func NewEconomyHandler(checkin *service.CheckinService, accounts *service.AccountService) *EconomyHandler {
	return &EconomyHandler{checkin: checkin, accounts: accounts}
}

// HandleCheckin handles the 签到 command.
func (h *EconomyHandler) HandleCheckin(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	res := h.checkin.CheckIn(sender.ID, time.Now())
	if res.AlreadyDone {
		return c.Reply(fmt.Sprintf("你今天已经签到过了\n\n当前积分: %d 积分", res.Balance))
	}

	return c.Reply(fmt.Sprintf("%s\n\n当前积分: %d 积分\n累计签到: %d 次",
		res.Message, res.Balance, res.CheckinCount))
}

// HandlePoints handles the 积分 / 我的积分 commands.
func (h *EconomyHandler) HandlePoints(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	acct := h.accounts.Snapshot(sender.ID)
	today := time.Now().Format(service.DateLayout)

	var b strings.Builder
	fmt.Fprintf(&b, "当前积分：%d分\n累计签到次数：%d次\n", acct.Balance, acct.CheckinCount)
	if acct.LastCheckinDate != "" {
		fmt.Fprintf(&b, "上次签到：%s\n", acct.LastCheckinDate)
		if acct.LastCheckinDate != today {
			b.WriteString("\n今日还未签到，快去签到吧")
		}
	} else {
		b.WriteString("上次签到：无\n\n今日还未签到，快去签到吧")
	}

	return c.Reply(b.String())
}

// HandleHistory handles the 积分记录 command, listing the retained history
// newest first.
func (h *EconomyHandler) HandleHistory(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	acct := h.accounts.Snapshot(sender.ID)

	var b strings.Builder
	b.WriteString("积分记录\n")
	if len(acct.History) == 0 {
		b.WriteString("暂无积分变动记录")
		return c.Reply(b.String())
	}

	for i := len(acct.History) - 1; i >= 0; i-- {
		rec := acct.History[i]
		points := fmt.Sprintf("%d", rec.Points)
		if rec.Points > 0 {
			points = "+" + points
		}
		fmt.Fprintf(&b, "%s %s %s", rec.Time, rec.Action, points)
		if rec.Source != 0 {
			fmt.Fprintf(&b, " 来自:%d", rec.Source)
		}
		b.WriteString("\n")
	}

	return c.Reply(strings.TrimRight(b.String(), "\n"))
}
