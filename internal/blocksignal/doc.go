// Package blocksignal turns bitcoind ZMQ block notifications into a wake-up
// channel for polling loops.
package blocksignal
