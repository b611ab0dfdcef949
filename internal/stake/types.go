package stake

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import "time"

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
