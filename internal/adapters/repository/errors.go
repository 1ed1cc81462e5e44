package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound   = errors.New("record not found")
	ErrOnCooldown = errors.New("subject on cooldown")
)
