package handlers

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/telebot.v3"

	"md5hit-bot/predictor"
	"md5hit-bot/service"
	"md5hit-bot/utils"
)

// Predict runs one paid prediction on the message text.
func (h *Handler) Predict(c telebot.Context) error {
	user := c.Sender()

	out, err := h.svc.Predict(user.ID, strings.TrimSpace(c.Text()))
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.Send("❌ Lỗi: Mã MD5 không hợp lệ.", telebot.ModeMarkdown)
	case errors.Is(err, service.ErrInsufficientBalance):
		return c.Send(fmt.Sprintf(
			"❌ Bạn không đủ xu để dự đoán (cần %d xu/lần).", h.cfg.Ledger.PredictionCost),
			telebot.ModeMarkdown)
	case errors.Is(err, service.ErrNotVIP):
		return c.Send("🔐 Tính năng dự đoán chỉ dành cho VIP. Gõ /code để nhập mã kích hoạt.",
			telebot.ModeMarkdown)
	case err != nil:
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	a := out.Result.Analysis
	response := fmt.Sprintf(
		"📊 KẾT QUẢ PHÂN TÍCH 📊\n\n"+
			"🔢 Mã MD5: `%s`\n"+
			"🎯 *Dự đoán*: %s (%.2f%%)\n\n"+
			"🔍 *Phân Tích*:\n"+
			"▫️ Chữ số chẵn: %d, lẻ: %d\n"+
			"▫️ Ký tự chữ (a-f): %d, số (0-9): %d\n"+
			"▫️ Mức phân tán (entropy): %.2f\n\n"+
			"💰 Xu còn lại: %s",
		out.Record.Input,
		out.Result.Outcome, out.Result.Confidence,
		a.EvenDigits, a.OddDigits,
		a.AlphaCount, a.NumCount,
		a.Entropy,
		utils.FormatNumber(out.Balance),
	)
	return c.Send(response, telebot.ModeMarkdown)
}

// Result records the real round outcome against the newest unresolved
// prediction, e.g. `/result tài`.
func (h *Handler) Result(c telebot.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("❌ Vui lòng nhập đúng định dạng: `/result <tài|xỉu>`", telebot.ModeMarkdown)
	}

	var actual predictor.Outcome
	switch strings.ToLower(args[0]) {
	case "tài", "tai":
		actual = predictor.OutcomeTai
	case "xỉu", "xiu":
		actual = predictor.OutcomeXiu
	default:
		return c.Send("❌ Kết quả phải là tài hoặc xỉu.", telebot.ModeMarkdown)
	}

	rec, err := h.svc.ReportResult(c.Sender().ID, actual)
	if errors.Is(err, service.ErrNoPendingPrediction) {
		return c.Send("📜 Không có dự đoán nào đang chờ kết quả.", telebot.ModeMarkdown)
	}
	if err != nil {
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	if rec.Correct {
		return c.Send(fmt.Sprintf("✅ Dự đoán `%s` → %s là CHÍNH XÁC!", rec.Input, rec.Predicted),
			telebot.ModeMarkdown)
	}
	return c.Send(fmt.Sprintf("❌ Dự đoán `%s` → %s sai, kết quả thật: %s.",
		rec.Input, rec.Predicted, rec.Actual), telebot.ModeMarkdown)
}
