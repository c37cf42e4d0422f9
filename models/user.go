package models

import "time"

type Role string

const (
	RoleRegular Role = "regular"
	RoleCTV     Role = "ctv"
)

// Account is the ledger record for one Telegram user.
type Account struct {
	TelegramName      string             `json:"telegram_name"`
	TelegramUsername  string             `json:"telegram_username"`
	TelegramUserID    int64              `json:"telegram_user_id"`
	Balance           int                `json:"balance"`
	IsVIP             bool               `json:"is_vip"`
	ExpireTime        *time.Time         `json:"expire_time,omitempty"`
	Role              Role               `json:"role"`
	InviteCount       int                `json:"invite_count"`
	InvitedUsers      []int64            `json:"invited_users,omitempty"`
	History           []PredictionRecord `json:"history,omitempty"`
	HasClaimedFreeVIP bool               `json:"has_claimed_free_vip"`
	FirstStart        bool               `json:"first_start"`
	CreatedAt         time.Time          `json:"created_at"`
}

// HasInvited reports whether id was already credited as an invitee.
func (a *Account) HasInvited(id int64) bool {
	for _, u := range a.InvitedUsers {
		if u == id {
			return true
		}
	}
	return false
}

// PredictionRecord is one history entry. Actual/Correct stay zero until
// the user reports the real round result back.
type PredictionRecord struct {
	Input     string    `json:"input"`
	Predicted string    `json:"predicted"`
	Actual    string    `json:"actual,omitempty"`
	Correct   bool      `json:"correct,omitempty"`
	At        time.Time `json:"at"`
}

// Resolved reports whether the real outcome was reported for this entry.
func (r PredictionRecord) Resolved() bool {
	return r.Actual != ""
}
