// Package featureflags evaluates simple config-driven feature flags.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type flagKind int

const (
	kindOff flagKind = iota
	kindOn
	kindPercent
)

type flag struct {
	raw  string
	kind flagKind
	// pct is the rollout percentage for kindPercent flags.
	pct int
}

// Manager evaluates feature flags defined in a comma-separated key=value
// list, e.g. "download_resume=on,new_search=25%,legacy_feed=off".
// Percentage flags roll out deterministically per user, so a user keeps the
// same flag state across requests.
type Manager struct {
	flags map[string]flag
}

// NewManager parses a config string into a Manager. Malformed pairs are
// dropped rather than failing startup.
func NewManager(raw string) *Manager {
	flags := make(map[string]flag)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = normalize(name)
		value = normalize(value)
		if name == "" || value == "" {
			continue
		}
		flags[name] = parseValue(value)
	}

	return &Manager{flags: flags}
}

func parseValue(value string) flag {
	switch value {
	case "on", "true", "1":
		return flag{raw: value, kind: kindOn}
	case "off", "false", "0":
		return flag{raw: value, kind: kindOff}
	}
	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		if err == nil && pct > 0 {
			if pct >= 100 {
				return flag{raw: value, kind: kindOn}
			}
			return flag{raw: value, kind: kindPercent, pct: pct}
		}
	}
	// Unrecognized values disable the flag.
	return flag{raw: value, kind: kindOff}
}

// Enabled reports whether a flag is on for the given user. Unknown flags are
// off. Anonymous users (ID 0) never fall inside a percentage rollout.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	f, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}
	switch f.kind {
	case kindOn:
		return true
	case kindPercent:
		if userID == 0 {
			return false
		}
		return rolloutBucket(name, userID) < f.pct
	default:
		return false
	}
}

// Raw returns the configured flag values as parsed.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for name, f := range m.flags {
		out[name] = f.raw
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
