package config

import "time"

// Server defaults
const (
	DefaultPort        = "8080"
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ShutdownTimeout    = 30 * time.Second
)

// Query batching defaults and limits
const (
	QueryTimeout              = 30 * time.Second
	DefaultEventsPerPartition = 5000
	MaxPartitions             = 64
	DefaultQueryWindow        = 1 * time.Hour
	PartitionFetchParallelism = 4
)

// Summary query defaults
const (
	SummaryTimeout       = 10 * time.Second
	DefaultSummaryWindow = 24 * time.Hour
)

// Storage defaults
const (
	DefaultMaxMemoryMB = 32
	BadgerGCInterval   = 10 * time.Minute
	BadgerGCRatio      = 0.5
)

// WebSocket streaming configuration
const (
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
	WSWriteDeadline   = 10 * time.Second
)
