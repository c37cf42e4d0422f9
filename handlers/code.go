package handlers

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/telebot.v3"

	"md5hit-bot/service"
)

// RedeemCode consumes a voucher for the caller: `/code CODEFREE7DAY`.
func (h *Handler) RedeemCode(c telebot.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("❌ Vui lòng nhập đúng định dạng: `/code <mã>`", telebot.ModeMarkdown)
	}

	grant, err := h.svc.RedeemCode(c.Sender().ID, strings.TrimSpace(args[0]))
	switch {
	case errors.Is(err, service.ErrInvalidCode):
		return c.Send("❌ Mã không tồn tại.", telebot.ModeMarkdown)
	case errors.Is(err, service.ErrCodeAlreadyUsed):
		return c.Send("❌ Mã này đã được sử dụng.", telebot.ModeMarkdown)
	case errors.Is(err, service.ErrFreeTierClaimed):
		return c.Send("❌ Bạn đã nhận ưu đãi miễn phí này rồi.", telebot.ModeMarkdown)
	case err != nil:
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	return c.Send(fmt.Sprintf(
		"✅ **Kích hoạt thành công %d ngày VIP!**\n👑 Hạn dùng: %s",
		grant.Days, formatExpiry(grant.NewExpiry)), telebot.ModeMarkdown)
}
