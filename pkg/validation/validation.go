package validation

import (
	"regexp"
	"strings"
)

var (
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	symbolRegex   = regexp.MustCompile(`^[A-Z0-9]{2,20}$`)
)

// klineIntervals lists the candle intervals accepted by exchange kline endpoints
var klineIntervals = map[string]bool{
	"1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true, "1M": true,
}

// IsValidCurrency validates an ISO 4217 style currency code (upper-case, 3 letters)
func IsValidCurrency(code string) bool {
	return currencyRegex.MatchString(strings.TrimSpace(code))
}

// IsValidSymbol validates an exchange trading pair symbol such as BTCUSDT
func IsValidSymbol(symbol string) bool {
	return symbolRegex.MatchString(strings.TrimSpace(symbol))
}

// IsValidInterval validates a candle interval
func IsValidInterval(interval string) bool {
	return klineIntervals[interval]
}

// SplitList splits a comma separated query value, dropping empty items
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
