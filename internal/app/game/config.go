package game

import "time"

// Config tunes the match rules. Zero values are replaced by defaults in New.
type Config struct {
	WarmupDuration     time.Duration // waiting for both teams → active
	ThresholdPerPlayer float64       // win threshold per player on the larger team
	IdleTimeout        time.Duration // lastSeen age after which a player leaves the roster
	EmptyTeamReset     time.Duration // how long a deserted team may stay empty
	PassiveInterval    time.Duration // minimum gap between passive income payouts
	MaxNameLength      int
}

// DefaultConfig returns the standard match rules.
func DefaultConfig() Config {
	return Config{
		WarmupDuration:     30 * time.Second,
		ThresholdPerPlayer: 2000,
		IdleTimeout:        5 * time.Second,
		EmptyTeamReset:     15 * time.Second,
		PassiveInterval:    time.Second,
		MaxNameLength:      32,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WarmupDuration <= 0 {
		c.WarmupDuration = d.WarmupDuration
	}
	if c.ThresholdPerPlayer <= 0 {
		c.ThresholdPerPlayer = d.ThresholdPerPlayer
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.EmptyTeamReset <= 0 {
		c.EmptyTeamReset = d.EmptyTeamReset
	}
	if c.PassiveInterval <= 0 {
		c.PassiveInterval = d.PassiveInterval
	}
	if c.MaxNameLength <= 0 {
		c.MaxNameLength = d.MaxNameLength
	}
	return c
}
