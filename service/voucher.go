package service

import (
	"strings"
	"time"

	"md5hit-bot/models"
	"md5hit-bot/storage"
	"md5hit-bot/utils"
)

// VipGrant is the result of a successful redemption.
type VipGrant struct {
	Days      int
	NewExpiry time.Time
}

// RedeemCode consumes a voucher for the caller. The used-by check and set
// happen inside one store transaction, so two concurrent redemptions of
// the same code can never both succeed. The well-known free-tier code
// additionally burns the account's one-time claim flag in the same step.
func (s *Service) RedeemCode(userID int64, code string) (VipGrant, error) {
	var grant VipGrant
	err := s.store.Mutate(func(tx *storage.Tx) error {
		v := tx.Voucher(code)
		if v == nil {
			return ErrInvalidCode
		}
		if v.Used() {
			return ErrCodeAlreadyUsed
		}

		acc := tx.GetOrCreate(userID, s.newAccount("", "", 0, false))
		if v.Type == models.VoucherTypeFreeTier || v.Code == s.cfg.FreeVIPCode {
			if acc.HasClaimedFreeVIP {
				return ErrFreeTierClaimed
			}
			acc.HasClaimedFreeVIP = true
		}

		redeemer := acc.TelegramUserID
		v.UsedBy = &redeemer
		grant = VipGrant{
			Days:      v.GrantDays,
			NewExpiry: ActivateVip(acc, v.GrantDays, s.now()),
		}
		return nil
	})
	return grant, err
}

// GenerateCode mints a new single-use voucher. Zero days means the
// deployment's default day-value.
func (s *Service) GenerateCode(adminID int64, days int) (models.Voucher, error) {
	if days < 0 {
		return models.Voucher{}, ErrInvalidAmount
	}
	if days == 0 {
		days = s.cfg.FreeVIPDays
	}

	var out models.Voucher
	err := s.store.Mutate(func(tx *storage.Tx) error {
		if !s.ent.IsAdminOrCtv(tx.Account(adminID), adminID) {
			return ErrNotAdmin
		}

		code := newVoucherCode(tx)
		v := &models.Voucher{
			Code:      code,
			Type:      models.VoucherTypeVIPDays,
			GrantDays: days,
			CreatedBy: adminID,
			CreatedAt: s.now(),
		}
		tx.PutVoucher(v)
		out = *v
		return nil
	})
	return out, err
}

// InspectCode returns a voucher's state without consuming it.
func (s *Service) InspectCode(adminID int64, code string) (models.Voucher, error) {
	acc, _ := s.store.Snapshot(adminID)
	if !s.ent.IsAdminOrCtv(&acc, adminID) {
		return models.Voucher{}, ErrNotAdmin
	}
	v, ok := s.store.VoucherSnapshot(code)
	if !ok {
		return models.Voucher{}, ErrInvalidCode
	}
	return v, nil
}

// SeedFreeVoucher pre-seeds the well-known free-tier code at startup.
// Existing state (used or not) is left alone.
func (s *Service) SeedFreeVoucher() error {
	return s.store.Mutate(func(tx *storage.Tx) error {
		if tx.Voucher(s.cfg.FreeVIPCode) != nil {
			return nil
		}
		tx.PutVoucher(&models.Voucher{
			Code:      s.cfg.FreeVIPCode,
			Type:      models.VoucherTypeFreeTier,
			GrantDays: s.cfg.FreeVIPDays,
			CreatedAt: s.now(),
		})
		return nil
	})
}

func newVoucherCode(tx *storage.Tx) string {
	for {
		code := "VIP" + strings.ToUpper(utils.GenerateUniqueCode())
		if tx.Voucher(code) == nil {
			return code
		}
	}
}
