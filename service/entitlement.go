package service

import (
	"time"

	"md5hit-bot/config"
	"md5hit-bot/models"
)

// Entitlements holds the fixed super-admin allow-list and the deployment's
// gating configuration. All checks are pure over an account snapshot.
type Entitlements struct {
	SuperAdmins []int64
	Mode        config.GatingMode
	Cost        int
}

// IsSuperAdmin never depends on mutable ledger state.
func (e Entitlements) IsSuperAdmin(callerID int64) bool {
	for _, id := range e.SuperAdmins {
		if id == callerID {
			return true
		}
	}
	return false
}

// IsAdminOrCtv reports whether the caller may run elevated commands.
func (e Entitlements) IsAdminOrCtv(acc *models.Account, callerID int64) bool {
	if e.IsSuperAdmin(callerID) {
		return true
	}
	return acc != nil && acc.Role == models.RoleCTV
}

// IsVip fails closed: a set flag with a missing expiry counts as not VIP.
func IsVip(acc *models.Account, now time.Time) bool {
	if acc == nil || !acc.IsVIP || acc.ExpireTime == nil {
		return false
	}
	return now.Before(*acc.ExpireTime)
}

// CanPredict applies the configured gating mode. Super-admins always pass.
func (e Entitlements) CanPredict(acc *models.Account, callerID int64, now time.Time) bool {
	if e.IsSuperAdmin(callerID) {
		return true
	}
	if e.Mode == config.GateByVIP {
		return IsVip(acc, now)
	}
	return acc != nil && acc.Balance >= e.Cost
}

// ActivateVip grants days of VIP. While VIP is still active the days stack
// on top of the current expiry; once expired the clock restarts from now.
// Early renewal is never penalized.
func ActivateVip(acc *models.Account, days int, now time.Time) time.Time {
	var expiry time.Time
	if IsVip(acc, now) {
		expiry = acc.ExpireTime.Add(time.Duration(days) * 24 * time.Hour)
	} else {
		expiry = now.Add(time.Duration(days) * 24 * time.Hour)
	}
	acc.IsVIP = true
	acc.ExpireTime = &expiry
	return expiry
}
