package service

import (
	"testing"
	"time"

	"md5hit-bot/models"
)

func TestCreditInvite(t *testing.T) {
	inviter := &models.Account{TelegramUserID: 1}

	if !creditInvite(inviter, 2, 1, testNow) {
		t.Fatal("first invite must credit")
	}
	if inviter.InviteCount != 1 {
		t.Fatalf("expected invite count 1, got %d", inviter.InviteCount)
	}
	if !inviter.HasInvited(2) {
		t.Fatal("invitee not recorded")
	}
	if !IsVip(inviter, testNow) {
		t.Fatal("bonus VIP not granted")
	}
	want := testNow.Add(24 * time.Hour)
	if !inviter.ExpireTime.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, inviter.ExpireTime)
	}
}

func TestCreditInviteIdempotent(t *testing.T) {
	inviter := &models.Account{TelegramUserID: 1}

	creditInvite(inviter, 2, 1, testNow)
	for i := 0; i < 5; i++ {
		if creditInvite(inviter, 2, 1, testNow) {
			t.Fatal("replayed invite must not credit")
		}
	}
	if inviter.InviteCount != 1 {
		t.Fatalf("expected invite count 1 after replays, got %d", inviter.InviteCount)
	}
	if len(inviter.InvitedUsers) != 1 {
		t.Fatalf("invitee recorded %d times", len(inviter.InvitedUsers))
	}
	want := testNow.Add(24 * time.Hour)
	if !inviter.ExpireTime.Equal(want) {
		t.Fatalf("bonus granted more than once, expiry %v", inviter.ExpireTime)
	}
}

func TestCreditInviteRejectsSelf(t *testing.T) {
	inviter := &models.Account{TelegramUserID: 1}
	if creditInvite(inviter, 1, 1, testNow) {
		t.Fatal("self-invite must not credit")
	}
	if inviter.InviteCount != 0 || len(inviter.InvitedUsers) != 0 {
		t.Fatalf("self-invite mutated the account: %+v", inviter)
	}
}

func TestStartCreditsInviterViaDeepLink(t *testing.T) {
	s := newTestService(t, nil)
	inviterID := int64(10)

	if _, err := s.Start(inviterID, "Bob", "bob", 0); err != nil {
		t.Fatal(err)
	}

	info, err := s.Start(userID, "Alice", "alice", inviterID)
	if err != nil {
		t.Fatal(err)
	}
	if !info.InviterCredited {
		t.Fatal("inviter should be credited for a new invitee")
	}

	inviter, _ := s.AccountInfo(inviterID)
	if inviter.InviteCount != 1 {
		t.Fatalf("expected invite count 1, got %d", inviter.InviteCount)
	}
	if !IsVip(&inviter, testNow) {
		t.Fatal("inviter did not receive the VIP bonus")
	}
}

func TestStartDoesNotCreditForExistingInvitee(t *testing.T) {
	s := newTestService(t, nil)
	inviterID := int64(10)

	if _, err := s.Start(inviterID, "Bob", "bob", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Start(userID, "Alice", "alice", 0); err != nil {
		t.Fatal(err)
	}

	// Alice already has an account; a later deep-link start must not credit.
	info, err := s.Start(userID, "Alice", "alice", inviterID)
	if err != nil {
		t.Fatal(err)
	}
	if info.InviterCredited {
		t.Fatal("existing invitee must not credit the inviter")
	}
	inviter, _ := s.AccountInfo(inviterID)
	if inviter.InviteCount != 0 {
		t.Fatalf("expected invite count 0, got %d", inviter.InviteCount)
	}
}

func TestStartIgnoresUnknownInviter(t *testing.T) {
	s := newTestService(t, nil)

	info, err := s.Start(userID, "Alice", "alice", 999)
	if err != nil {
		t.Fatal(err)
	}
	if info.InviterCredited {
		t.Fatal("unknown inviter must not be credited")
	}
}
