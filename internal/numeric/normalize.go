package numeric

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var reDotRun = regexp.MustCompile(`\.\.+`)

// Normalize turns a noisy numeric token into a float64. It is a total
// function: irrecoverable input yields 0 with a debug diagnostic, never an
// error. The repair steps run in a fixed order and each one operates on the
// output of the previous, so reordering them changes results.
func Normalize(token string) float64 {
	raw := strings.TrimSpace(token)
	// stray characters OCR likes to inject into numeric fields
	raw = strings.ReplaceAll(raw, "S", "")
	raw = strings.ReplaceAll(raw, "_", "")
	raw = strings.ReplaceAll(raw, ".,", ".")
	// comma as decimal separator
	raw = strings.ReplaceAll(raw, ",", ".")
	if parts := strings.Split(raw, "."); len(parts) > 2 {
		// every dot but the last is a thousands separator
		last := parts[len(parts)-1]
		raw = parts[0] + strings.Join(parts[1:len(parts)-1], "") + "." + last
	}
	raw = reDotRun.ReplaceAllString(raw, ".")
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		raw = "0"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Debug("numeric.parse_failed", "token", token, "repaired", raw)
		return 0
	}
	return v
}
