package models

import "time"

const (
	VoucherTypeVIPDays = "vip_days"
	// VoucherTypeFreeTier marks promotional codes that additionally burn
	// the account's one-time free claim.
	VoucherTypeFreeTier = "free_vip"
)

// Voucher is a single-use redemption code granting VIP days.
type Voucher struct {
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	GrantDays int       `json:"grant_days"`
	UsedBy    *int64    `json:"used_by,omitempty"`
	CreatedBy int64     `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Used reports whether the code was already consumed.
func (v Voucher) Used() bool {
	return v.UsedBy != nil
}
