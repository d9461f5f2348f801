package tui

import "time"

type Config struct {
	Root       string
	Output     string
	Concurrent int
	Refresh    time.Duration
}
