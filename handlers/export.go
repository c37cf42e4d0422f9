package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"gopkg.in/telebot.v3"

	"md5hit-bot/config"
	"md5hit-bot/models"
	"md5hit-bot/service"
)

// SheetsExporter pushes a ledger summary to a Google Sheet. Purely an
// admin convenience; a failed export never touches the ledger.
type SheetsExporter struct {
	cfg config.SheetsConfig
}

func NewSheetsExporter(cfg config.SheetsConfig) *SheetsExporter {
	return &SheetsExporter{cfg: cfg}
}

func (e *SheetsExporter) Configured() bool {
	return e.cfg.SpreadsheetID != ""
}

func (e *SheetsExporter) Export(ctx context.Context, accounts []models.Account) error {
	b, err := os.ReadFile(e.cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return fmt.Errorf("sheets service: %w", err)
	}

	values := [][]interface{}{
		{"Name", "ID", "Balance", "VIP Expiry", "Invites"},
	}
	for _, acc := range accounts {
		expiry := ""
		if acc.ExpireTime != nil {
			expiry = acc.ExpireTime.Format("02/01/2006 15:04")
		}
		values = append(values, []interface{}{
			acc.TelegramName, acc.TelegramUserID, acc.Balance, expiry, acc.InviteCount,
		})
	}

	writeRange := e.cfg.SheetName + "!A1"
	_, err = srv.Spreadsheets.Values.Update(
		e.cfg.SpreadsheetID,
		writeRange,
		&sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}
	return nil
}

// Export pushes the account table to the configured spreadsheet: `/export`.
func (h *Handler) Export(c telebot.Context) error {
	accounts, err := h.svc.Stats(c.Sender().ID)
	if errors.Is(err, service.ErrNotAdmin) {
		return c.Send(notAdminMsg, telebot.ModeMarkdown)
	}
	if err != nil {
		return c.Send("❌ Có lỗi xảy ra, vui lòng thử lại sau.")
	}

	if !h.sheets.Configured() {
		return c.Send("⚠️ Chưa cấu hình Google Sheet (SHEETS_SPREADSHEET_ID).", telebot.ModeMarkdown)
	}

	if err := h.sheets.Export(context.Background(), accounts); err != nil {
		log.Printf("⚠️ Sheet export failed: %v", err)
		return c.Send("❌ Xuất dữ liệu thất bại, xem log để biết chi tiết.")
	}
	return c.Send(fmt.Sprintf("✅ Đã xuất %d tài khoản lên Google Sheet.", len(accounts)),
		telebot.ModeMarkdown)
}
