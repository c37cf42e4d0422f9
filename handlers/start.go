package handlers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"

	"md5hit-bot/utils"
)

// Start handles first contact. A deep-link payload of the form ref_<id>
// carries the inviter, who gets a one-time VIP-day bonus for this invitee.
func (h *Handler) Start(c telebot.Context) error {
	user := c.Sender()

	var inviterID int64
	if payload := c.Data(); strings.HasPrefix(payload, "ref_") {
		id, err := strconv.ParseInt(strings.TrimPrefix(payload, "ref_"), 10, 64)
		if err == nil {
			inviterID = id
		}
	}

	info, err := h.svc.Start(user.ID, senderName(user), user.Username, inviterID)
	if err != nil {
		log.Printf("⚠️ Start failed for user %d: %v", user.ID, err)
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✨ %s %s\n", utils.GetGreeting(), senderName(user))
	b.WriteString("🤖 Tool hỗ trợ game hit.club\n")
	b.WriteString("➡️ Gửi mã MD5 để bắt đầu dự đoán\n")
	b.WriteString("🔹 Lệnh Sử Dụng\n")
	b.WriteString(">> /info - Xem Hồ Sơ\n")
	b.WriteString(">> /history - Lịch Sử\n")
	b.WriteString(">> /code <mã> - Nhập Code VIP\n")
	b.WriteString(">> /invite - Mời Bạn Bè Nhận VIP\n")
	if h.svc.Entitlements().IsAdminOrCtv(&info.Account, user.ID) {
		b.WriteString("🔹 Lệnh Admin\n")
		b.WriteString(">> /addxu <id> <xu> - Cộng Xu\n")
		b.WriteString(">> /unxu <id> <xu> - Trừ Xu\n")
		b.WriteString(">> /addvip <id> <ngày> - Cộng VIP\n")
		b.WriteString(">> /genkey [ngày] - Tạo Code\n")
		b.WriteString(">> /thongke - Xem Thống Kê User\n")
	}
	if info.FirstStart {
		fmt.Fprintf(&b, "**🎉 Bạn nhận được %d xu khi tham gia lần đầu!**", info.Account.Balance)
	}

	return c.Send(b.String(), telebot.ModeMarkdown)
}

// Invite sends the user's personal deep link as a QR card.
func (h *Handler) Invite(c telebot.Context) error {
	user := c.Sender()

	filename, err := utils.WriteInviteQR(h.cfg.Telegram.BotName, user.ID)
	if err != nil {
		log.Printf("⚠️ Failed to render invite QR for %d: %v", user.ID, err)
		return c.Send(fmt.Sprintf("🔗 Link mời của bạn: %s",
			utils.InviteLink(h.cfg.Telegram.BotName, user.ID)))
	}
	defer os.Remove(filename)

	photo := &telebot.Photo{
		File: telebot.FromDisk(filename),
		Caption: fmt.Sprintf(
			"🎁 Mời bạn bè và nhận %d ngày VIP cho mỗi người mới!\n🔗 %s",
			h.cfg.Ledger.InviteBonus,
			utils.InviteLink(h.cfg.Telegram.BotName, user.ID)),
	}
	return c.Send(photo)
}

// Info shows the caller's ledger snapshot.
func (h *Handler) Info(c telebot.Context) error {
	user := c.Sender()
	acc, ok := h.svc.AccountInfo(user.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "👤 Tên: %s\n", senderName(user))
	fmt.Fprintf(&b, "🆔 ID: %d\n", user.ID)
	fmt.Fprintf(&b, "💰 Xu: %s\n", utils.FormatNumber(acc.Balance))
	if ok && h.svc.IsVipNow(&acc) {
		fmt.Fprintf(&b, "👑 VIP: còn hạn đến %s\n", acc.ExpireTime.Format("02/01/2006 15:04"))
	} else {
		b.WriteString("👑 VIP: chưa kích hoạt\n")
	}
	fmt.Fprintf(&b, "🤝 Đã mời: %d người", acc.InviteCount)

	return c.Send(b.String(), telebot.ModeMarkdown)
}

// History shows the last 10 stored predictions, most recent last.
func (h *Handler) History(c telebot.Context) error {
	records := h.svc.History(c.Sender().ID)
	if len(records) == 0 {
		return c.Send("📜 Lịch sử trống.", telebot.ModeMarkdown)
	}

	if len(records) > 10 {
		records = records[len(records)-10:]
	}

	var b strings.Builder
	b.WriteString("📜 Lịch Sử Dự Đoán\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "Mã MD5: `%s` - Dự Đoán: %s", r.Input, r.Predicted)
		if r.Resolved() {
			if r.Correct {
				b.WriteString(" ✅")
			} else {
				fmt.Fprintf(&b, " ❌ (%s)", r.Actual)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n*Chỉ hiển thị 10 mục gần nhất.")

	return c.Send(b.String(), telebot.ModeMarkdown)
}

func formatExpiry(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
