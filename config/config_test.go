package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	l := cfg.Ledger
	if l.GatingMode != GateByBalance {
		t.Fatalf("expected balance gating by default, got %s", l.GatingMode)
	}
	if l.PredictionCost != 1 || l.InitialBalance != 10 {
		t.Fatalf("unexpected defaults: cost=%d initial=%d", l.PredictionCost, l.InitialBalance)
	}
	if l.FreeVIPCode != "CODEFREE7DAY" || l.FreeVIPDays != 7 {
		t.Fatalf("unexpected free code defaults: %s/%d", l.FreeVIPCode, l.FreeVIPDays)
	}
	if l.DataFile != "md5hit.json" {
		t.Fatalf("unexpected data file: %s", l.DataFile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GATING_MODE", "vip")
	t.Setenv("ADMIN_IDS", "777, 888,bogus,")
	t.Setenv("FREE_VIP_CODE", "freebie")
	t.Setenv("PREDICTION_COST", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	l := cfg.Ledger
	if l.GatingMode != GateByVIP {
		t.Fatalf("expected vip gating, got %s", l.GatingMode)
	}
	if len(l.SuperAdmins) != 2 || l.SuperAdmins[0] != 777 || l.SuperAdmins[1] != 888 {
		t.Fatalf("unexpected admin list: %v", l.SuperAdmins)
	}
	if l.FreeVIPCode != "FREEBIE" {
		t.Fatalf("free code not upper-cased: %s", l.FreeVIPCode)
	}
	if l.PredictionCost != 2 {
		t.Fatalf("expected cost 2, got %d", l.PredictionCost)
	}
}

func TestLoadRejectsUnknownGatingMode(t *testing.T) {
	t.Setenv("GATING_MODE", "whatever")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ledger.GatingMode != GateByBalance {
		t.Fatalf("unknown mode must fall back to balance, got %s", cfg.Ledger.GatingMode)
	}
}
