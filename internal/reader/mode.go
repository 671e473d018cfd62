package reader

import "os"

// CondPolicy controls how reader conditionals (#? and #?@) are handled.
type CondPolicy string

const (
	// CondAllow selects the matching feature branch of a conditional.
	CondAllow CondPolicy = "allow"
	// CondIgnore treats any reader conditional as a parse error, matching
	// hosts that predate reader-conditional support.
	CondIgnore CondPolicy = "ignore"
)

// Mode is the process-wide read configuration. Callers resolve it once at
// startup (ModeFromEnv) and thread it explicitly into every parse call;
// there is no ambient global.
type Mode struct {
	Cond     CondPolicy
	Features []string // feature keywords with leading colon, e.g. ":clj"
}

// DefaultMode returns the standard host configuration: conditionals
// allowed, the :clj branch preferred, :default as fallback.
func DefaultMode() Mode {
	return Mode{Cond: CondAllow, Features: []string{":clj"}}
}

// ModeFromEnv resolves the read mode from NSSCAN_READ_COND ("allow" or
// "ignore"). Unset or unrecognized values yield DefaultMode.
func ModeFromEnv() Mode {
	mode := DefaultMode()
	if os.Getenv("NSSCAN_READ_COND") == string(CondIgnore) {
		mode.Cond = CondIgnore
	}
	return mode
}

// normalized fills zero-value fields so Mode{} behaves like DefaultMode.
func (m Mode) normalized() Mode {
	if m.Cond == "" {
		m.Cond = CondAllow
	}
	if len(m.Features) == 0 {
		m.Features = []string{":clj"}
	}
	return m
}
