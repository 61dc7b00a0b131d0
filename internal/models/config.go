package models

import "time"

// Config contains configuration for package lookups
type Config struct {
	// Endpoints
	OfficialURL string // official repository search endpoint
	AURURL      string // AUR RPC base endpoint
	AURWebURL   string // AUR web base, used for package links

	// HTTP
	Timeout   time.Duration // per-request timeout
	UserAgent string

	// MaxConcurrent caps parallel AUR info requests, 0 means no cap
	MaxConcurrent int

	// Output
	Lang  string // message language, e.g. "en" or "zh"
	Color bool   // style labels in terminal output
}
