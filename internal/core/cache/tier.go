package cache

import (
	"fmt"
	"os"
	"sort"
	"time"

	"dashboard.app/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tier names a pre-configured expiration bucket shared by many procedures
type Tier string

const (
	TierSecondsShort  Tier = "seconds-short"
	TierSecondsMedium Tier = "seconds-medium"
	TierSecondsLong   Tier = "seconds-long"
	TierMinutesShort  Tier = "minutes-short"
	TierMinutesMedium Tier = "minutes-medium"
	TierMinutesLong   Tier = "minutes-long"
	TierHoursShort    Tier = "hours-short"
	TierHoursMedium   Tier = "hours-medium"
	TierHoursLong     Tier = "hours-long"
)

var defaultTTLs = map[Tier]time.Duration{
	TierSecondsShort:  10 * time.Second,
	TierSecondsMedium: 30 * time.Second,
	TierSecondsLong:   45 * time.Second,
	TierMinutesShort:  2 * time.Minute,
	TierMinutesMedium: 5 * time.Minute,
	TierMinutesLong:   15 * time.Minute,
	TierHoursShort:    time.Hour,
	TierHoursMedium:   6 * time.Hour,
	TierHoursLong:     24 * time.Hour,
}

// String returns the tier name
func (t Tier) String() string {
	return string(t)
}

// IsValid reports whether t belongs to the closed set of tiers
func (t Tier) IsValid() bool {
	_, ok := defaultTTLs[t]
	return ok
}

// ParseTier converts a tier name into a Tier
func ParseTier(name string) (Tier, error) {
	tier := Tier(name)
	if !tier.IsValid() {
		return "", errors.NewValidationError(fmt.Sprintf("unknown cache tier: %q", name))
	}
	return tier, nil
}

// TierTable maps every tier to its TTL. It is built once at process start.
type TierTable map[Tier]time.Duration

// DefaultTierTable returns the built-in tier durations
func DefaultTierTable() TierTable {
	table := make(TierTable, len(defaultTTLs))
	for tier, ttl := range defaultTTLs {
		table[tier] = ttl
	}
	return table
}

// TTL returns the duration configured for tier
func (t TierTable) TTL(tier Tier) (time.Duration, error) {
	ttl, ok := t[tier]
	if !ok {
		return 0, errors.NewValidationError(fmt.Sprintf("unknown cache tier: %q", tier))
	}
	return ttl, nil
}

// Validate checks that the table covers the closed tier set with positive durations
func (t TierTable) Validate() error {
	for tier := range defaultTTLs {
		ttl, ok := t[tier]
		if !ok {
			return errors.NewConfigurationError(fmt.Sprintf("cache tier %q is not configured", tier), nil)
		}
		if ttl <= 0 {
			return errors.NewConfigurationError(fmt.Sprintf("cache tier %q must have a positive TTL", tier), nil)
		}
	}
	for tier := range t {
		if !tier.IsValid() {
			return errors.NewConfigurationError(fmt.Sprintf("unknown cache tier: %q", tier), nil)
		}
	}
	return nil
}

// Tiers returns the configured tiers ordered by TTL, then by name
func (t TierTable) Tiers() []Tier {
	tiers := make([]Tier, 0, len(t))
	for tier := range t {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool {
		if t[tiers[i]] != t[tiers[j]] {
			return t[tiers[i]] < t[tiers[j]]
		}
		return tiers[i] < tiers[j]
	})
	return tiers
}

// tierFile is the YAML layout of a tier override file:
//
//	tiers:
//	  seconds-medium: 20s
//	  hours-short: 90m
type tierFile struct {
	Tiers map[string]string `yaml:"tiers"`
}

// LoadTierTable returns the default table with overrides from the YAML file at path.
// An empty path yields the defaults.
func LoadTierTable(path string) (TierTable, error) {
	table := DefaultTierTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigurationError("read cache tier file", err)
	}

	var file tierFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewConfigurationError("parse cache tier file", err)
	}

	for name, value := range file.Tiers {
		tier := Tier(name)
		if !tier.IsValid() {
			return nil, errors.NewConfigurationError(fmt.Sprintf("unknown cache tier in %s: %q", path, name), nil)
		}
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return nil, errors.NewConfigurationError(fmt.Sprintf("invalid TTL for cache tier %q", name), err)
		}
		table[tier] = ttl
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
