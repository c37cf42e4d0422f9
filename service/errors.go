package service

import "errors"

var (
	ErrInvalidInput        = errors.New("input must be exactly 32 hex characters")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidRole         = errors.New("unknown role")
	ErrNotAdmin            = errors.New("caller is not an admin")
	ErrNotVIP              = errors.New("caller has no active VIP")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidCode         = errors.New("code not found")
	ErrCodeAlreadyUsed     = errors.New("code already used")
	ErrFreeTierClaimed     = errors.New("free tier already claimed for this account")
	ErrNoPendingPrediction = errors.New("no unresolved prediction in history")
)
