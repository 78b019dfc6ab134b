package underwriting

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumber returns v as a finite number: numbers pass through, numeric text is parsed,
// anything else yields fallback.
func CoerceNumber(v Value, fallback float64) float64 {
	if n, ok := CoerceOptionalNumber(v); ok {
		return n
	}
	return fallback
}

// CoerceOptionalNumber is CoerceNumber without a fallback; ok is false when v holds no number.
func CoerceOptionalNumber(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		if isFinite(v.number) {
			return v.number, true
		}
	case KindString:
		return parseFinite(v.text)
	}
	return 0, false
}

// CoerceInteger is CoerceNumber truncated toward zero.
func CoerceInteger(v Value, fallback int) int {
	if n, ok := coerceOptionalInteger(v); ok {
		return n
	}
	return fallback
}

func coerceOptionalInteger(v Value) (int, bool) {
	n, ok := CoerceOptionalNumber(v)
	if !ok {
		return 0, false
	}
	t := math.Trunc(n)
	// -MinInt is exactly representable as a float64 while MaxInt is not.
	if t < float64(math.MinInt) || t >= -float64(math.MinInt) {
		return 0, false
	}
	return int(t), true
}

// NormalizeText stringifies numbers and trims text. Every other kind is "".
func NormalizeText(v Value) string {
	switch v.kind {
	case KindString:
		return strings.TrimSpace(v.text)
	case KindNumber:
		if !isFinite(v.number) {
			return ""
		}
		return formatNumber(v.number)
	default:
		return ""
	}
}

// NormalizeDecision maps v onto a Decision, defaulting to Refer.
func NormalizeDecision(v Value) Decision {
	return ParseDecision(NormalizeText(v))
}

// NormalizeReasons returns the non-empty reason strings held by v, or nil when there are none.
// A single scalar becomes a one-element list.
func NormalizeReasons(v Value) []string {
	if !v.Truthy() {
		return nil
	}
	if v.kind == KindArray {
		reasons := make([]string, 0, len(v.items))
		for _, item := range v.items {
			if text := NormalizeText(item); text != "" {
				reasons = append(reasons, text)
			}
		}
		if len(reasons) == 0 {
			return nil
		}
		return reasons
	}
	if text := NormalizeText(v); text != "" {
		return []string{text}
	}
	return nil
}

// formatNumber renders n in the shortest form that round-trips, switching to exponent
// notation ("1e+21", "1.5e-7") outside [1e-6, 1e21) the way JSON producers print numbers.
func formatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	if abs := math.Abs(n); abs >= 1e21 || abs < 1e-6 {
		text := strconv.FormatFloat(n, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(text, "e")
		sign, digits := exponent[:1], strings.TrimLeft(exponent[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func parseFinite(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !isFinite(n) {
		return 0, false
	}
	return n, true
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
