package service

import "time"

const (
	defaultQueueSize      = 1024
	defaultReplayHorizon  = 72 * time.Hour
	defaultReplayPageSize = 50_000
	defaultMaxClockSkew   = 2 * time.Minute
	defaultPollInterval   = 30 * time.Second
	sleepDuration         = 5 * time.Second
)
