package service

import (
	"fmt"
	"log"
	"sort"
	"time"

	"md5hit-bot/config"
	"md5hit-bot/models"
	"md5hit-bot/predictor"
	"md5hit-bot/storage"
)

const historyCap = 50

// Notifier delivers out-of-band messages to other users. Delivery is
// best-effort: the ledger mutation that triggered it is already committed.
type Notifier interface {
	Notify(userID int64, message string) error
}

// Service is the command-layer-facing API. Every mutation runs inside one
// store transaction; handlers only ever see snapshots.
type Service struct {
	store    *storage.Store
	cfg      config.LedgerConfig
	ent      Entitlements
	pred     predictor.Predictor
	mirror   *storage.Mirror
	notifier Notifier
	now      func() time.Time
}

func New(store *storage.Store, cfg config.LedgerConfig, pred predictor.Predictor, mirror *storage.Mirror, notifier Notifier) *Service {
	return &Service{
		store: store,
		cfg:   cfg,
		ent: Entitlements{
			SuperAdmins: cfg.SuperAdmins,
			Mode:        cfg.GatingMode,
			Cost:        cfg.PredictionCost,
		},
		pred:     pred,
		mirror:   mirror,
		notifier: notifier,
		now:      time.Now,
	}
}

// Entitlements exposes the pure checks for handlers that only format replies.
func (s *Service) Entitlements() Entitlements {
	return s.ent
}

func (s *Service) newAccount(name, username string, balance int, firstStart bool) func() *models.Account {
	return func() *models.Account {
		return &models.Account{
			TelegramName:     name,
			TelegramUsername: username,
			Balance:          balance,
			Role:             models.RoleRegular,
			FirstStart:       firstStart,
			CreatedAt:        s.now(),
		}
	}
}

// StartInfo is what the welcome reply is built from.
type StartInfo struct {
	Account         models.Account
	FirstStart      bool
	InviterCredited bool
}

// Start lazily creates the account with the initial balance and, when an
// inviter id arrives via the deep link, credits the inviter exactly once.
func (s *Service) Start(userID int64, name, username string, inviterID int64) (StartInfo, error) {
	var info StartInfo
	var creditedInviter *models.Account

	err := s.store.Mutate(func(tx *storage.Tx) error {
		existed := tx.Account(userID) != nil
		acc := tx.GetOrCreate(userID, s.newAccount(name, username, s.cfg.InitialBalance, true))
		info.FirstStart = !existed
		if existed {
			acc.FirstStart = false
			acc.TelegramName = name
			acc.TelegramUsername = username
		}

		if !existed && inviterID != 0 {
			if inviter := tx.Account(inviterID); inviter != nil {
				if creditInvite(inviter, userID, s.cfg.InviteBonus, s.now()) {
					info.InviterCredited = true
					snapshot := *inviter
					creditedInviter = &snapshot
				}
			}
		}

		info.Account = *acc
		return nil
	})
	if err != nil {
		return StartInfo{}, err
	}

	if creditedInviter != nil {
		s.notify(creditedInviter.TelegramUserID,
			"🎉 Bạn vừa mời thêm một người dùng mới và nhận thưởng VIP. Gõ /info để xem hạn VIP.")
	}

	return info, nil
}

// PredictOutcome bundles the prediction with the post-deduction balance.
type PredictOutcome struct {
	Result  predictor.Result
	Record  models.PredictionRecord
	Balance int
}

// Predict validates the input, checks the gate, deducts the cost (balance
// mode), and appends the history entry, all under one store transaction.
// Invalid input mutates nothing.
func (s *Service) Predict(userID int64, input string) (PredictOutcome, error) {
	res, err := s.pred.Predict(input)
	if err != nil {
		return PredictOutcome{}, ErrInvalidInput
	}

	var out PredictOutcome
	err = s.store.Mutate(func(tx *storage.Tx) error {
		acc := tx.GetOrCreate(userID, s.newAccount("", "", 0, false))
		now := s.now()

		if !s.ent.CanPredict(acc, userID, now) {
			if s.ent.Mode == config.GateByVIP {
				return ErrNotVIP
			}
			return ErrInsufficientBalance
		}
		if s.ent.Mode == config.GateByBalance && acc.Balance >= s.ent.Cost {
			acc.Balance -= s.ent.Cost
		}

		rec := models.PredictionRecord{
			Input:     input,
			Predicted: string(res.Outcome),
			At:        now,
		}
		if len(acc.History) >= historyCap {
			acc.History = acc.History[len(acc.History)-historyCap+1:]
		}
		acc.History = append(acc.History, rec)

		out = PredictOutcome{Result: res, Record: rec, Balance: acc.Balance}
		return nil
	})
	if err != nil {
		return PredictOutcome{}, err
	}

	s.mirror.RecordPrediction(userID, out.Record)
	return out, nil
}

// ReportResult marks the newest unresolved history entry with the real
// round outcome.
func (s *Service) ReportResult(userID int64, actual predictor.Outcome) (models.PredictionRecord, error) {
	var resolved models.PredictionRecord
	err := s.store.Mutate(func(tx *storage.Tx) error {
		acc := tx.Account(userID)
		if acc == nil {
			return ErrNoPendingPrediction
		}
		for i := len(acc.History) - 1; i >= 0; i-- {
			if acc.History[i].Resolved() {
				continue
			}
			acc.History[i].Actual = string(actual)
			acc.History[i].Correct = acc.History[i].Predicted == string(actual)
			resolved = acc.History[i]
			return nil
		}
		return ErrNoPendingPrediction
	})
	return resolved, err
}

// BalanceChange reports an admin balance mutation back to the caller.
type BalanceChange struct {
	NewBalance int
	Notified   bool
}

// GrantBalance adds amount to the target's balance. The target account is
// created on the spot when missing, the way the original admin flow works.
func (s *Service) GrantBalance(adminID, targetID int64, amount int) (BalanceChange, error) {
	if amount <= 0 {
		return BalanceChange{}, ErrInvalidAmount
	}

	var change BalanceChange
	err := s.store.Mutate(func(tx *storage.Tx) error {
		if !s.ent.IsAdminOrCtv(tx.Account(adminID), adminID) {
			return ErrNotAdmin
		}
		target := tx.GetOrCreate(targetID, s.newAccount("", "", 0, false))
		target.Balance += amount
		change.NewBalance = target.Balance
		return nil
	})
	if err != nil {
		return BalanceChange{}, err
	}

	change.Notified = s.notifyf(targetID,
		"💸 Bạn vừa được admin cộng %d xu. Số dư hiện tại: %d", amount, change.NewBalance)
	return change, nil
}

// DeductBalance removes amount from the target's balance. The balance can
// never go negative; an over-deduction fails with no state change.
func (s *Service) DeductBalance(adminID, targetID int64, amount int) (BalanceChange, error) {
	if amount <= 0 {
		return BalanceChange{}, ErrInvalidAmount
	}

	var change BalanceChange
	err := s.store.Mutate(func(tx *storage.Tx) error {
		if !s.ent.IsAdminOrCtv(tx.Account(adminID), adminID) {
			return ErrNotAdmin
		}
		target := tx.Account(targetID)
		if target == nil {
			return ErrAccountNotFound
		}
		if target.Balance < amount {
			return ErrInsufficientBalance
		}
		target.Balance -= amount
		change.NewBalance = target.Balance
		return nil
	})
	if err != nil {
		return BalanceChange{}, err
	}

	change.Notified = s.notifyf(targetID,
		"💸 Bạn vừa bị admin trừ %d xu. Số dư hiện tại: %d", amount, change.NewBalance)
	return change, nil
}

// ExtendVip grants days of VIP to the target, stacking on an active expiry.
func (s *Service) ExtendVip(adminID, targetID int64, days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, ErrInvalidAmount
	}

	var expiry time.Time
	err := s.store.Mutate(func(tx *storage.Tx) error {
		if !s.ent.IsAdminOrCtv(tx.Account(adminID), adminID) {
			return ErrNotAdmin
		}
		target := tx.GetOrCreate(targetID, s.newAccount("", "", 0, false))
		expiry = ActivateVip(target, days, s.now())
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}

	s.notifyf(targetID,
		"👑 Bạn vừa được cộng %d ngày VIP. Hạn dùng: %s", days, expiry.Format("02/01/2006 15:04"))
	return expiry, nil
}

// GrantRole promotes or demotes a collaborator. Super-admin only; the
// super-admin list itself lives in config and is never mutated here.
func (s *Service) GrantRole(adminID, targetID int64, role models.Role) error {
	if role != models.RoleRegular && role != models.RoleCTV {
		return ErrInvalidRole
	}
	return s.store.Mutate(func(tx *storage.Tx) error {
		if !s.ent.IsSuperAdmin(adminID) {
			return ErrNotAdmin
		}
		target := tx.GetOrCreate(targetID, s.newAccount("", "", 0, false))
		target.Role = role
		return nil
	})
}

// AccountInfo returns a snapshot, zero-valued when the user never started.
func (s *Service) AccountInfo(userID int64) (models.Account, bool) {
	return s.store.Snapshot(userID)
}

// History returns the stored prediction records, most recent last.
func (s *Service) History(userID int64) []models.PredictionRecord {
	acc, ok := s.store.Snapshot(userID)
	if !ok {
		return nil
	}
	return acc.History
}

// Stats lists every account for the admin overview, oldest first.
func (s *Service) Stats(adminID int64) ([]models.Account, error) {
	if !s.ent.IsSuperAdmin(adminID) {
		return nil, ErrNotAdmin
	}
	accounts := s.store.Accounts()
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].TelegramUserID < accounts[j].TelegramUserID
	})
	return accounts, nil
}

// IsVipNow reports the target's VIP state against the service clock.
func (s *Service) IsVipNow(acc *models.Account) bool {
	return IsVip(acc, s.now())
}

func (s *Service) notify(userID int64, message string) bool {
	if s.notifier == nil {
		return false
	}
	if err := s.notifier.Notify(userID, message); err != nil {
		log.Printf("⚠️ Failed to notify user %d: %v", userID, err)
		return false
	}
	return true
}

func (s *Service) notifyf(userID int64, format string, args ...interface{}) bool {
	return s.notify(userID, fmt.Sprintf(format, args...))
}
