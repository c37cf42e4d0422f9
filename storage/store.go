package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"md5hit-bot/models"
)

// Store owns every Account and Voucher record. All mutation goes through
// Mutate, which holds one lock across the read-check-mutate-save sequence.
// Handlers never keep references into the store; they get copies.
type Store struct {
	mu          sync.Mutex
	dataFile    string
	voucherFile string
	accounts    map[int64]*models.Account
	vouchers    map[string]*models.Voucher
}

// Open loads both ledger files. Missing or corrupt files reset the
// corresponding table to empty with a logged warning.
func Open(dataFile, voucherFile string) *Store {
	s := &Store{
		dataFile:    dataFile,
		voucherFile: voucherFile,
		accounts:    make(map[int64]*models.Account),
		vouchers:    make(map[string]*models.Voucher),
	}
	s.load()
	return s
}

func (s *Store) load() {
	var rawAccounts map[string]*models.Account
	if err := readJSON(s.dataFile, &rawAccounts); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to load %s, starting with empty ledger: %v", s.dataFile, err)
		}
	} else {
		// User IDs round-trip as strings on disk, int64 in memory.
		for k, acc := range rawAccounts {
			id, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				log.Printf("⚠️ Skipping malformed account key %q in %s", k, s.dataFile)
				continue
			}
			s.accounts[id] = acc
		}
	}

	if err := readJSON(s.voucherFile, &s.vouchers); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to load %s, starting with empty voucher table: %v", s.voucherFile, err)
		}
		s.vouchers = make(map[string]*models.Voucher)
	}
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Tx gives a Mutate callback access to the locked tables.
type Tx struct {
	s *Store
}

// Account returns the live record for id, or nil if absent.
func (tx *Tx) Account(id int64) *models.Account {
	return tx.s.accounts[id]
}

// GetOrCreate returns the live record for id, inserting def first if absent.
func (tx *Tx) GetOrCreate(id int64, def func() *models.Account) *models.Account {
	acc, ok := tx.s.accounts[id]
	if !ok {
		acc = def()
		acc.TelegramUserID = id
		tx.s.accounts[id] = acc
		log.Printf("✅ New account created: %d", id)
	}
	return acc
}

// Voucher returns the live voucher for code, or nil if absent.
// Codes are case-insensitive and stored upper-cased.
func (tx *Tx) Voucher(code string) *models.Voucher {
	return tx.s.vouchers[normalizeCode(code)]
}

// PutVoucher inserts or replaces a voucher under its normalized code.
func (tx *Tx) PutVoucher(v *models.Voucher) {
	v.Code = normalizeCode(v.Code)
	tx.s.vouchers[v.Code] = v
}

// Mutate runs fn under the store lock and flushes both tables afterwards.
// If fn returns an error nothing is saved and the error is passed through.
// A failed save is logged but not returned: the in-memory mutation already
// happened and stays the source of truth until restart.
func (s *Store) Mutate(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(&Tx{s: s}); err != nil {
		return err
	}
	s.saveLocked()
	return nil
}

func (s *Store) saveLocked() {
	onDisk := make(map[string]*models.Account, len(s.accounts))
	for id, acc := range s.accounts {
		onDisk[strconv.FormatInt(id, 10)] = acc
	}
	if err := writeJSON(s.dataFile, onDisk); err != nil {
		log.Printf("⚠️ Failed to save %s (in-memory state kept): %v", s.dataFile, err)
	}
	if err := writeJSON(s.voucherFile, s.vouchers); err != nil {
		log.Printf("⚠️ Failed to save %s (in-memory state kept): %v", s.voucherFile, err)
	}
}

// writeJSON replaces path atomically via a temp file in the same directory.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Snapshot returns a copy of the account for id.
func (s *Store) Snapshot(id int64) (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, false
	}
	return copyAccount(acc), true
}

// Accounts returns copies of every account, in no particular order.
func (s *Store) Accounts() []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, copyAccount(acc))
	}
	return out
}

// VoucherSnapshot returns a copy of the voucher for code.
func (s *Store) VoucherSnapshot(code string) (models.Voucher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vouchers[normalizeCode(code)]
	if !ok {
		return models.Voucher{}, false
	}
	out := *v
	if v.UsedBy != nil {
		id := *v.UsedBy
		out.UsedBy = &id
	}
	return out, true
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func copyAccount(acc *models.Account) models.Account {
	out := *acc
	if acc.ExpireTime != nil {
		t := *acc.ExpireTime
		out.ExpireTime = &t
	}
	out.InvitedUsers = append([]int64(nil), acc.InvitedUsers...)
	out.History = append([]models.PredictionRecord(nil), acc.History...)
	return out
}
