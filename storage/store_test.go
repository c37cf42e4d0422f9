package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"md5hit-bot/models"
)

func testStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "md5hit.json")
	vouchers := filepath.Join(dir, "vouchers.json")
	return Open(data, vouchers), data, vouchers
}

func TestMutatePersistsAcrossReopen(t *testing.T) {
	s, data, vouchers := testStore(t)

	err := s.Mutate(func(tx *Tx) error {
		acc := tx.GetOrCreate(42, func() *models.Account {
			return &models.Account{Balance: 10, Role: models.RoleRegular}
		})
		acc.InviteCount = 3
		tx.PutVoucher(&models.Voucher{Code: "vipabc", GrantDays: 7})
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	reopened := Open(data, vouchers)
	acc, ok := reopened.Snapshot(42)
	if !ok {
		t.Fatal("account 42 missing after reopen")
	}
	if acc.TelegramUserID != 42 {
		t.Fatalf("expected id 42, got %d", acc.TelegramUserID)
	}
	if acc.Balance != 10 || acc.InviteCount != 3 {
		t.Fatalf("unexpected account after reopen: %+v", acc)
	}
	v, ok := reopened.VoucherSnapshot("VIPABC")
	if !ok {
		t.Fatal("voucher missing after reopen")
	}
	if v.GrantDays != 7 {
		t.Fatalf("expected 7 grant days, got %d", v.GrantDays)
	}
}

func TestMutateErrorSkipsSave(t *testing.T) {
	s, data, _ := testStore(t)

	wantErr := os.ErrInvalid
	err := s.Mutate(func(tx *Tx) error {
		tx.GetOrCreate(7, func() *models.Account { return &models.Account{} })
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected error passthrough, got %v", err)
	}
	if _, statErr := os.Stat(data); !os.IsNotExist(statErr) {
		t.Fatal("data file written despite failed mutation")
	}
}

func TestLoadCorruptFileResetsEmpty(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "md5hit.json")
	vouchers := filepath.Join(dir, "vouchers.json")
	if err := os.WriteFile(data, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(data, vouchers)
	if got := len(s.Accounts()); got != 0 {
		t.Fatalf("expected empty store, got %d accounts", got)
	}
}

func TestLoadSkipsMalformedKeys(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "md5hit.json")
	content := `{"99": {"balance": 5}, "not-a-number": {"balance": 1}}`
	if err := os.WriteFile(data, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(data, filepath.Join(dir, "vouchers.json"))
	if _, ok := s.Snapshot(99); !ok {
		t.Fatal("numeric key should load")
	}
	if got := len(s.Accounts()); got != 1 {
		t.Fatalf("expected 1 account, got %d", got)
	}
}

func TestVoucherCodesCaseInsensitive(t *testing.T) {
	s, _, _ := testStore(t)

	err := s.Mutate(func(tx *Tx) error {
		tx.PutVoucher(&models.Voucher{Code: "  CodeFree7Day ", GrantDays: 7})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, lookup := range []string{"codefree7day", "CODEFREE7DAY", " CodeFree7Day"} {
		if _, ok := s.VoucherSnapshot(lookup); !ok {
			t.Fatalf("lookup %q missed", lookup)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _, _ := testStore(t)
	expiry := time.Now().Add(24 * time.Hour)

	err := s.Mutate(func(tx *Tx) error {
		acc := tx.GetOrCreate(1, func() *models.Account { return &models.Account{Balance: 10} })
		acc.ExpireTime = &expiry
		acc.InvitedUsers = []int64{2}
		acc.History = []models.PredictionRecord{{Input: "a", Predicted: "Tài"}}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	snap, _ := s.Snapshot(1)
	snap.Balance = 0
	*snap.ExpireTime = time.Time{}
	snap.InvitedUsers[0] = 99
	snap.History[0].Predicted = "Xỉu"

	fresh, _ := s.Snapshot(1)
	if fresh.Balance != 10 {
		t.Fatal("balance mutated through snapshot")
	}
	if fresh.ExpireTime.IsZero() {
		t.Fatal("expiry mutated through snapshot")
	}
	if fresh.InvitedUsers[0] != 2 {
		t.Fatal("invited list mutated through snapshot")
	}
	if fresh.History[0].Predicted != "Tài" {
		t.Fatal("history mutated through snapshot")
	}
}
