package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v3"

	"md5hit-bot/models"
	"md5hit-bot/service"
	"md5hit-bot/utils"
)

const notAdminMsg = "🚫 Chỉ admin mới có thể sử dụng lệnh này!"

// parseIDAmount parses the common `<id> <n>` admin argument pair.
func parseIDAmount(args []string) (int64, int, error) {
	if len(args) != 2 {
		return 0, 0, errors.New("wrong arg count")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, err
	}
	return id, n, nil
}

// AddXu credits xu to a target account: `/addxu <id> <xu>`.
func (h *Handler) AddXu(c telebot.Context) error {
	targetID, amount, err := parseIDAmount(c.Args())
	if err != nil {
		return c.Send("❌ Lỗi: Vui lòng nhập đúng định dạng: `/addxu <id> <xu>`", telebot.ModeMarkdown)
	}

	change, err := h.svc.GrantBalance(c.Sender().ID, targetID, amount)
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		return c.Send(notAdminMsg, telebot.ModeMarkdown)
	case errors.Is(err, service.ErrInvalidAmount):
		return c.Send("❌ Lỗi: Số xu phải lớn hơn 0", telebot.ModeMarkdown)
	case err != nil:
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	if err := c.Send(fmt.Sprintf(
		"✅ **Đã cộng %d xu cho ID %d. Số dư mới: %d**",
		amount, targetID, change.NewBalance), telebot.ModeMarkdown); err != nil {
		return err
	}
	if !change.Notified {
		return c.Send(fmt.Sprintf("⚠️ Không thể gửi thông báo tới người dùng ID %d.", targetID),
			telebot.ModeMarkdown)
	}
	return nil
}

// UnXu debits xu from a target account: `/unxu <id> <xu>`.
func (h *Handler) UnXu(c telebot.Context) error {
	targetID, amount, err := parseIDAmount(c.Args())
	if err != nil {
		return c.Send("❌ Lỗi: Vui lòng nhập đúng định dạng: `/unxu <id> <xu>`", telebot.ModeMarkdown)
	}

	change, err := h.svc.DeductBalance(c.Sender().ID, targetID, amount)
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		return c.Send(notAdminMsg, telebot.ModeMarkdown)
	case errors.Is(err, service.ErrInvalidAmount):
		return c.Send("❌ Lỗi: Số xu phải lớn hơn 0", telebot.ModeMarkdown)
	case errors.Is(err, service.ErrAccountNotFound):
		return c.Send(fmt.Sprintf("❌ Người dùng với ID %d không tồn tại.", targetID), telebot.ModeMarkdown)
	case errors.Is(err, service.ErrInsufficientBalance):
		return c.Send(fmt.Sprintf("❌ Số dư của ID %d không đủ.", targetID), telebot.ModeMarkdown)
	case err != nil:
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	if err := c.Send(fmt.Sprintf(
		"✅ Đã trừ %d xu từ ID %d. Số dư mới: %d",
		amount, targetID, change.NewBalance), telebot.ModeMarkdown); err != nil {
		return err
	}
	if !change.Notified {
		return c.Send(fmt.Sprintf("⚠️ Không thể gửi thông báo tới người dùng ID %d.", targetID),
			telebot.ModeMarkdown)
	}
	return nil
}

// AddVip extends a target's VIP: `/addvip <id> <ngày>`.
func (h *Handler) AddVip(c telebot.Context) error {
	targetID, days, err := parseIDAmount(c.Args())
	if err != nil {
		return c.Send("❌ Lỗi: Vui lòng nhập đúng định dạng: `/addvip <id> <ngày>`", telebot.ModeMarkdown)
	}

	expiry, err := h.svc.ExtendVip(c.Sender().ID, targetID, days)
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		return c.Send(notAdminMsg, telebot.ModeMarkdown)
	case errors.Is(err, service.ErrInvalidAmount):
		return c.Send("❌ Lỗi: Số ngày phải lớn hơn 0", telebot.ModeMarkdown)
	case err != nil:
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	return c.Send(fmt.Sprintf(
		"✅ Đã cộng %d ngày VIP cho ID %d. Hạn dùng: %s",
		days, targetID, formatExpiry(expiry)), telebot.ModeMarkdown)
}

// GenKey mints a voucher: `/genkey [ngày]`. No argument uses the default.
func (h *Handler) GenKey(c telebot.Context) error {
	days := 0
	if args := c.Args(); len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return c.Send("❌ Lỗi: Số ngày phải lớn hơn 0", telebot.ModeMarkdown)
		}
		days = n
	} else if len(args) > 1 {
		return c.Send("❌ Lỗi: Vui lòng nhập đúng định dạng: `/genkey [ngày]`", telebot.ModeMarkdown)
	}

	v, err := h.svc.GenerateCode(c.Sender().ID, days)
	if errors.Is(err, service.ErrNotAdmin) {
		return c.Send(notAdminMsg, telebot.ModeMarkdown)
	}
	if err != nil {
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	return c.Send(fmt.Sprintf("🔑 Code mới: `%s` (%d ngày VIP)", v.Code, v.GrantDays),
		telebot.ModeMarkdown)
}

// CheckKey inspects a voucher without consuming it: `/checkkey <mã>`.
func (h *Handler) CheckKey(c telebot.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("❌ Lỗi: Vui lòng nhập đúng định dạng: `/checkkey <mã>`", telebot.ModeMarkdown)
	}

	v, err := h.svc.InspectCode(c.Sender().ID, args[0])
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		return c.Send(notAdminMsg, telebot.ModeMarkdown)
	case errors.Is(err, service.ErrInvalidCode):
		return c.Send("❌ Mã không tồn tại.", telebot.ModeMarkdown)
	case err != nil:
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	status := "chưa sử dụng"
	if v.Used() {
		status = fmt.Sprintf("đã dùng bởi ID %d", *v.UsedBy)
	}
	return c.Send(fmt.Sprintf("🔑 `%s`: %d ngày VIP, %s", v.Code, v.GrantDays, status),
		telebot.ModeMarkdown)
}

// SetRole promotes or demotes a collaborator: `/setrole <id> <ctv|regular>`.
func (h *Handler) SetRole(c telebot.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return c.Send("❌ Lỗi: Vui lòng nhập đúng định dạng: `/setrole <id> <ctv|regular>`",
			telebot.ModeMarkdown)
	}
	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("❌ Lỗi: ID phải là số.", telebot.ModeMarkdown)
	}

	err = h.svc.GrantRole(c.Sender().ID, targetID, models.Role(strings.ToLower(args[1])))
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		return c.Send(notAdminMsg, telebot.ModeMarkdown)
	case errors.Is(err, service.ErrInvalidRole):
		return c.Send("❌ Lỗi: Vai trò phải là ctv hoặc regular.", telebot.ModeMarkdown)
	case err != nil:
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	return c.Send(fmt.Sprintf("✅ Đã đặt vai trò %s cho ID %d.", args[1], targetID),
		telebot.ModeMarkdown)
}

// ThongKe lists every account for the admin: `/thongke`.
func (h *Handler) ThongKe(c telebot.Context) error {
	accounts, err := h.svc.Stats(c.Sender().ID)
	if errors.Is(err, service.ErrNotAdmin) {
		return c.Send(notAdminMsg, telebot.ModeMarkdown)
	}
	if err != nil {
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}
	if len(accounts) == 0 {
		return c.Send("📊 Không có dữ liệu người dùng.", telebot.ModeMarkdown)
	}

	var b strings.Builder
	b.WriteString("📊 Thống Kê Người Dùng\n\nTên - ID - Xu\n")
	for i, acc := range accounts {
		name := acc.TelegramName
		if name == "" {
			name = fmt.Sprintf("[Unknown User %d]", acc.TelegramUserID)
		}
		fmt.Fprintf(&b, "%d. %s - %d - %s\n",
			i+1, name, acc.TelegramUserID, utils.FormatNumber(acc.Balance))

		// Telegram caps messages at 4096 chars; flush in batches.
		if b.Len() > 4000 {
			if err := c.Send(b.String(), telebot.ModeMarkdown); err != nil {
				return err
			}
			b.Reset()
		}
	}
	return c.Send(b.String(), telebot.ModeMarkdown)
}
