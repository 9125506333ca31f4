// Package temporal scores the time correlation between an asset's creation
// timestamp and a candidate's added date.
package temporal

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/memerank/memerank/internal/config"
)

// msThreshold separates second-resolution epochs from millisecond ones.
// Anything above it is treated as milliseconds.
const msThreshold = 9999999999

// Analyzer holds the ordered added-date formats. The order is part of the
// contract: the first format that parses wins.
type Analyzer struct {
	formats []string
}

// NewAnalyzer builds an analyzer from config.
func NewAnalyzer(cfg config.TemporalConfig) *Analyzer {
	return &Analyzer{formats: cfg.AddedDateFormats}
}

// ParseUnixFlexible interprets an epoch value in seconds or milliseconds.
// Non-positive input is rejected.
func ParseUnixFlexible(ts int64) (time.Time, bool) {
	if ts <= 0 {
		return time.Time{}, false
	}
	if ts > msThreshold {
		ts /= 1000
	}
	return time.Unix(ts, 0).UTC(), true
}

// ParseRawTimestamp handles dirty upstream timestamps: numeric strings with
// stray non-digit characters are stripped down to their digits first.
func ParseRawTimestamp(raw string) (time.Time, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return ParseUnixFlexible(n)
}

// ParseAddedDate tries the configured formats in priority order, stopping
// at the first success. Timezone suffixes are stripped beforehand; parsed
// times are taken as UTC.
func (a *Analyzer) ParseAddedDate(added string) (time.Time, bool) {
	added = strings.TrimSpace(added)
	added = strings.ReplaceAll(added, "Z", "")
	added = strings.ReplaceAll(added, "+00:00", "")
	if added == "" {
		return time.Time{}, false
	}
	for _, format := range a.formats {
		if t, err := time.ParseInLocation(format, added, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Freshness scores asset age: under a day 1.0, under a week 0.5, under a
// month 0.25, else 0.
func Freshness(created, now time.Time) float64 {
	if created.IsZero() || created.After(now) {
		return 0
	}
	days := int(now.Sub(created).Hours() / 24)
	switch {
	case days < 1:
		return 1.0
	case days < 7:
		return 0.5
	case days < 30:
		return 0.25
	}
	return 0
}

// Correlation scores the day gap between asset creation and the candidate's
// added date: under a week +1.0, under a month +0.5.
func (a *Analyzer) Correlation(created time.Time, addedAt string) float64 {
	if addedAt == "" {
		return 0
	}
	added, ok := a.ParseAddedDate(addedAt)
	if !ok {
		return 0
	}
	days := int(math.Abs(created.Sub(added).Hours()) / 24)
	switch {
	case days < 7:
		return 1.0
	case days < 30:
		return 0.5
	}
	return 0
}

// Score combines freshness and correlation for an epoch-valued creation
// timestamp. Either component degrades to zero on parse failure; a missing
// creation timestamp zeroes the whole score since both components need it.
func (a *Analyzer) Score(assetCreatedAt int64, candidateAddedAt string, now time.Time) float64 {
	created, ok := ParseUnixFlexible(assetCreatedAt)
	if !ok {
		return 0
	}
	return Freshness(created, now) + a.Correlation(created, candidateAddedAt)
}

// ScoreRaw is Score for string-typed creation timestamps.
func (a *Analyzer) ScoreRaw(assetCreatedAt, candidateAddedAt string, now time.Time) float64 {
	created, ok := ParseRawTimestamp(assetCreatedAt)
	if !ok {
		return 0
	}
	return Freshness(created, now) + a.Correlation(created, candidateAddedAt)
}
