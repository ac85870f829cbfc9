package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

// riot
const (
	PlatformBaseURL = "https://na1.api.riotgames.com"
	RegionalBaseURL = "https://americas.api.riotgames.com"

	DefaultRiotRatePerSecond = 20
	DefaultRiotRateBurst     = 20
)

// queue ids as reported in match payloads
const (
	QueueRankedSolo = 420
	QueueRankedFlex = 440
	QueueTFTNormal  = 1090
	QueueTFTRanked  = 1100
	QueueTFTHyper   = 1130
)

const (
	RankedSoloQueueType = "RANKED_SOLO_5x5"
	RankedTFTQueueType  = "RANKED_TFT"
)

const (
	RecapMatchCount     = 25
	WinrateMatchCount   = 10
	SnapshotConcurrency = 8
	DefaultTimezone     = "America/New_York"
)
