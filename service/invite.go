package service

import (
	"time"

	"md5hit-bot/models"
)

// creditInvite rewards the inviter for one new invitee. Replays of the
// same pair and self-invites are no-ops, so duplicate delivery of a deep
// link can never double-credit.
func creditInvite(inviter *models.Account, inviteeID int64, bonusDays int, now time.Time) bool {
	if inviter.TelegramUserID == inviteeID {
		return false
	}
	if inviter.HasInvited(inviteeID) {
		return false
	}
	inviter.InviteCount++
	inviter.InvitedUsers = append(inviter.InvitedUsers, inviteeID)
	ActivateVip(inviter, bonusDays, now)
	return true
}
