package money

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

type Chips int64

func (c *Chips) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return ErrInvalidAmount
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	value, err := Parse(string(data))
	if err != nil {
		return err
	}
	*c = Chips(value)
	return nil
}

func (c Chips) Int64() int64 {
	return int64(c)
}

// Parse accepts "100", "+100", "-5" and "100.0" but not "100.5" or "1e3".
func Parse(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	sign := int64(1)
	switch trimmed[0] {
	case '-':
		sign = -1
		trimmed = trimmed[1:]
	case '+':
		trimmed = trimmed[1:]
	}
	whole, frac, hasFrac := strings.Cut(trimmed, ".")
	if whole == "" || !isDigits(whole) {
		return 0, ErrInvalidAmount
	}
	if hasFrac && (frac == "" || !isDigits(frac) || strings.Trim(frac, "0") != "") {
		return 0, ErrInvalidAmount
	}
	value, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return sign * value, nil
}

func Format(value int64) string {
	return strconv.FormatInt(value, 10)
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
