package scheduler

import "time"

const (
	positionKey = "scheduler:position"
	scheduleKey = "scheduler:schedule"

	defaultTickInterval = 12 * time.Second
	defaultPushTimeout  = 10 * time.Second
	defaultStateTTL     = 48 * time.Hour
)
