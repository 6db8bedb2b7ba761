package constants

import (
	"time"
)

// Application identity
const (
	// AppName names the data directory, the log file and the CLI binary.
	AppName = "tucha"

	// StorageContainerPrefix - the account's storage group is titled
	// "<prefix>-<account id>" and is looked up by that exact title.
	StorageContainerPrefix = "TuchaCloud"

	// SessionFileExtension - one session blob per account: "<account id>.session".
	SessionFileExtension = ".session"

	// ConfigFileName - INI file holding the app credentials, inside the data dir.
	ConfigFileName = "config.ini"
)

// Redraw loop
const (
	// TickInterval - how often the foreground loop drains one outcome and redraws.
	TickInterval = 50 * time.Millisecond

	// OutcomeBuffer - capacity of the outcome channel between background
	// tasks and the engine.
	OutcomeBuffer = 64
)

// Event bus configuration
const (
	// EventBusDefaultBuffer - default buffer size for event channels (1000)
	// Subscribers that fall behind lose events rather than blocking the engine.
	EventBusDefaultBuffer = 1000

	// EventBusMaxBuffer - maximum buffer size for high-throughput scenarios (5000)
	EventBusMaxBuffer = 5000
)

// Log file rotation
const (
	LogFileMaxSizeMB  = 10
	LogFileMaxBackups = 5
	LogFileMaxAgeDays = 30
)

// Telegram write pacing
const (
	// WriteRatePerSec - sustained rate of message sends and deletions per
	// account. Telegram answers faster bursts with FLOOD_WAIT.
	WriteRatePerSec = 1.0

	// WriteBurstCapacity - writes allowed back to back before pacing starts.
	WriteBurstCapacity = 20
)
