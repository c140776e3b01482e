package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FIPSLength is the width of a county FIPS code.
const FIPSLength = 5

// ErrInvalidFIPS is returned when a value cannot be read as a county FIPS code.
var ErrInvalidFIPS = errors.New("invalid fips code")

// NormalizeFIPS converts a raw FIPS value to its 5-character zero-padded
// form. Integer renderings ("1001") and integral float renderings
// ("1001.0") are accepted, since both are common in exported CSVs.
func NormalizeFIPS(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidFIPS)
	}

	if whole, frac, ok := strings.Cut(raw, "."); ok {
		if strings.Trim(frac, "0") != "" {
			return "", fmt.Errorf("%w: %q is not integral", ErrInvalidFIPS, raw)
		}
		raw = whole
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFIPS, raw)
	}
	return FormatFIPS(n)
}

// FormatFIPS renders an integer FIPS code as a 5-character string.
func FormatFIPS(n int) (string, error) {
	if n < 0 || n > 99999 {
		return "", fmt.Errorf("%w: %d out of range", ErrInvalidFIPS, n)
	}
	return fmt.Sprintf("%0*d", FIPSLength, n), nil
}

// StatePrefix returns the 2-digit state portion of a normalized FIPS code.
func StatePrefix(fips string) string {
	if len(fips) != FIPSLength {
		return ""
	}
	return fips[:2]
}
