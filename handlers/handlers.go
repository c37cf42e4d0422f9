package handlers

import (
	"strings"

	"gopkg.in/telebot.v3"

	"md5hit-bot/config"
	"md5hit-bot/service"
)

// Handler wires the Telegram commands to the ledger service. It holds no
// mutable account state of its own; every decision re-fetches through the
// service so checks always run against the freshest ledger.
type Handler struct {
	svc    *service.Service
	cfg    *config.Config
	sheets *SheetsExporter
}

func New(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		svc:    svc,
		cfg:    cfg,
		sheets: NewSheetsExporter(cfg.Sheets),
	}
}

// Register attaches every route to the bot.
func (h *Handler) Register(bot *telebot.Bot) {
	bot.Handle("/start", h.Start)
	bot.Handle("/info", h.Info)
	bot.Handle("/history", h.History)
	bot.Handle("/result", h.Result)
	bot.Handle("/code", h.RedeemCode)
	bot.Handle("/invite", h.Invite)

	bot.Handle("/addxu", h.AddXu)
	bot.Handle("/unxu", h.UnXu)
	bot.Handle("/addvip", h.AddVip)
	bot.Handle("/genkey", h.GenKey)
	bot.Handle("/checkkey", h.CheckKey)
	bot.Handle("/setrole", h.SetRole)
	bot.Handle("/thongke", h.ThongKe)
	bot.Handle("/export", h.Export)

	bot.Handle(telebot.OnText, h.OnText)
}

// OnText treats any non-command text as an MD5 code to predict on.
func (h *Handler) OnText(c telebot.Context) error {
	if strings.HasPrefix(c.Text(), "/") {
		return nil
	}
	return h.Predict(c)
}

// BotNotifier delivers service notifications through the bot connection.
type BotNotifier struct {
	Bot *telebot.Bot
}

func (n *BotNotifier) Notify(userID int64, message string) error {
	_, err := n.Bot.Send(&telebot.User{ID: userID}, message, telebot.ModeMarkdown)
	return err
}

func senderName(u *telebot.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}
