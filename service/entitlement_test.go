package service

import (
	"testing"
	"time"

	"md5hit-bot/config"
	"md5hit-bot/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func vipAccount(expiry time.Time) *models.Account {
	return &models.Account{IsVIP: true, ExpireTime: &expiry}
}

func TestIsVip(t *testing.T) {
	tests := []struct {
		name string
		acc  *models.Account
		want bool
	}{
		{name: "nil account", acc: nil, want: false},
		{name: "flag unset", acc: &models.Account{}, want: false},
		{name: "flag set but no expiry", acc: &models.Account{IsVIP: true}, want: false},
		{name: "expired", acc: vipAccount(testNow.Add(-time.Minute)), want: false},
		{name: "active", acc: vipAccount(testNow.Add(time.Minute)), want: true},
		{name: "expiry exactly now", acc: vipAccount(testNow), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVip(tt.acc, testNow); got != tt.want {
				t.Fatalf("IsVip = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSuperAdmin(t *testing.T) {
	e := Entitlements{SuperAdmins: []int64{777, 888}}
	if !e.IsSuperAdmin(777) || !e.IsSuperAdmin(888) {
		t.Fatal("listed ids must be super-admins")
	}
	if e.IsSuperAdmin(1) {
		t.Fatal("unlisted id must not be super-admin")
	}
}

func TestIsAdminOrCtv(t *testing.T) {
	e := Entitlements{SuperAdmins: []int64{777}}

	if !e.IsAdminOrCtv(nil, 777) {
		t.Fatal("super-admin passes even without an account record")
	}
	if !e.IsAdminOrCtv(&models.Account{Role: models.RoleCTV}, 1) {
		t.Fatal("ctv role passes")
	}
	if e.IsAdminOrCtv(&models.Account{Role: models.RoleRegular}, 1) {
		t.Fatal("regular role must not pass")
	}
	if e.IsAdminOrCtv(nil, 1) {
		t.Fatal("unknown caller must not pass")
	}
}

func TestCanPredictBalanceMode(t *testing.T) {
	e := Entitlements{SuperAdmins: []int64{777}, Mode: config.GateByBalance, Cost: 1}

	if !e.CanPredict(&models.Account{Balance: 1}, 1, testNow) {
		t.Fatal("balance >= cost must pass")
	}
	if e.CanPredict(&models.Account{Balance: 0}, 1, testNow) {
		t.Fatal("balance < cost must fail")
	}
	if !e.CanPredict(&models.Account{Balance: 0}, 777, testNow) {
		t.Fatal("super-admin always passes")
	}
}

func TestCanPredictVipMode(t *testing.T) {
	e := Entitlements{SuperAdmins: []int64{777}, Mode: config.GateByVIP, Cost: 1}

	if !e.CanPredict(vipAccount(testNow.Add(time.Hour)), 1, testNow) {
		t.Fatal("active VIP must pass")
	}
	if e.CanPredict(&models.Account{Balance: 100}, 1, testNow) {
		t.Fatal("balance is irrelevant in vip mode")
	}
	if !e.CanPredict(&models.Account{}, 777, testNow) {
		t.Fatal("super-admin always passes")
	}
}

func TestActivateVipFromScratch(t *testing.T) {
	acc := &models.Account{}
	expiry := ActivateVip(acc, 7, testNow)

	want := testNow.Add(7 * 24 * time.Hour)
	if !expiry.Equal(want) {
		t.Fatalf("expected %v, got %v", want, expiry)
	}
	if !acc.IsVIP || acc.ExpireTime == nil || !acc.ExpireTime.Equal(want) {
		t.Fatalf("account not activated: %+v", acc)
	}
}

func TestActivateVipStacksWhileActive(t *testing.T) {
	acc := vipAccount(testNow.Add(48 * time.Hour))
	expiry := ActivateVip(acc, 3, testNow)

	want := testNow.Add((48 + 3*24) * time.Hour)
	if !expiry.Equal(want) {
		t.Fatalf("expected stacked expiry %v, got %v", want, expiry)
	}
}

func TestActivateVipResetsAfterExpiry(t *testing.T) {
	acc := vipAccount(testNow.Add(-time.Hour))
	expiry := ActivateVip(acc, 3, testNow)

	want := testNow.Add(3 * 24 * time.Hour)
	if !expiry.Equal(want) {
		t.Fatalf("expected reset expiry %v, got %v", want, expiry)
	}
}

// Granting d1 then d2 while active must land on the same expiry as a
// single d1+d2 grant.
func TestActivateVipAssociative(t *testing.T) {
	split := vipAccount(testNow.Add(time.Hour))
	ActivateVip(split, 2, testNow)
	gotSplit := ActivateVip(split, 5, testNow)

	once := vipAccount(testNow.Add(time.Hour))
	gotOnce := ActivateVip(once, 7, testNow)

	if !gotSplit.Equal(gotOnce) {
		t.Fatalf("split grants %v != single grant %v", gotSplit, gotOnce)
	}
}
