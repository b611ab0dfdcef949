package model

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// PoolIndex identifies the kind of pool an authority routes work to.
type PoolIndex uint8

const (
	PoolCustom  PoolIndex = 1
	PoolBraiins PoolIndex = 2
	PoolProxy   PoolIndex = 3
)

func (p PoolIndex) String() string {
	switch p {
	case PoolCustom:
		return "custom"
	case PoolBraiins:
		return "braiins"
	case PoolProxy:
		return "proxy"
	default:
		return "unknown"
	}
}

// PoolDescriptor is the connection info an authority commits on chain.
type PoolDescriptor struct {
	Index        PoolIndex `json:"index"`
	Host         string    `json:"host"`
	Port         uint16    `json:"port"`
	HighDiffPort uint16    `json:"high_diff_port,omitempty"`
	Username     string    `json:"username,omitempty"`
	Password     string    `json:"password,omitempty"`
}

// URL returns the stratum endpoint of the pool.
func (d PoolDescriptor) URL() string {
	return "stratum+tcp://" + net.JoinHostPort(d.Host, strconv.Itoa(int(d.Port)))
}

// HighDiffURL returns the high difficulty endpoint, falling back to URL.
func (d PoolDescriptor) HighDiffURL() string {
	if d.HighDiffPort == 0 {
		return d.URL()
	}
	return "stratum+tcp://" + net.JoinHostPort(d.Host, strconv.Itoa(int(d.HighDiffPort)))
}

// Validate checks the descriptor can be routed to.
func (d PoolDescriptor) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("descriptor host is empty")
	}
	if d.Port == 0 {
		return fmt.Errorf("descriptor port is zero")
	}
	return nil
}

// Authority is a stake-weighted evaluator hashrate can be directed to.
type Authority struct {
	ID         string          `json:"id"`
	Stake      decimal.Decimal `json:"stake"`
	MinBlocks  uint64          `json:"min_blocks,omitempty"`
	Descriptor PoolDescriptor  `json:"descriptor"`
}

// StakeSnapshot is the authority table for one evaluation cycle.
type StakeSnapshot struct {
	CycleID     uint64      `json:"cycle_id"`
	CycleStart  uint64      `json:"cycle_start"`
	Height      uint64      `json:"height"`
	Authorities []Authority `json:"authorities"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

// ProxyTarget is one pool the proxy should route a proportion of work to.
type ProxyTarget struct {
	AuthorityID string
	URL         string
	HighDiffURL string
	User        string
	Password    string
	Proportion  float64
}
