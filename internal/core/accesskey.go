package core

import (
	"errors"
	"fmt"
	"strings"
)

// AccessKeyLength is the fixed width of an access key.
const AccessKeyLength = 44

// ErrMalformedAccessKey is wrapped by every access-key decoding failure.
var ErrMalformedAccessKey = errors.New("malformed access key")

// AccessKeyError describes why a key could not be decoded.
type AccessKeyError struct {
	Key    string
	Reason string
}

func (e *AccessKeyError) Error() string {
	return fmt.Sprintf("malformed access key %q: %s", e.Key, e.Reason)
}

func (e *AccessKeyError) Unwrap() error { return ErrMalformedAccessKey }

// AccessKey is the decomposition of a 44-character access key.
type AccessKey struct {
	Key          string `json:"key"`
	Jurisdiction string `json:"jurisdiction"`
	YearMonth    string `json:"year_month"`
	TaxpayerID   string `json:"taxpayer_id"`
	Model        string `json:"model"`
	Series       string `json:"series"`
	Number       string `json:"document_number"`
	EmissionType string `json:"emission_type"`
	NumericCode  string `json:"numeric_code"`
	CheckDigit   string `json:"check_digit"`
}

// DecodeAccessKey splits a key into its fixed-width fields:
//
//	jurisdiction(2) year-month(4) taxpayer(14) model(2) series(3)
//	number(9) emission-type(1) numeric-code(8) check-digit(1)
//
// Surrounding whitespace is ignored. Anything other than exactly 44 digits
// yields an *AccessKeyError.
func DecodeAccessKey(key string) (AccessKey, error) {
	key = strings.TrimSpace(key)

	if n := len(key); n != AccessKeyLength {
		return AccessKey{}, &AccessKeyError{Key: key, Reason: fmt.Sprintf("must have %d digits, got %d characters", AccessKeyLength, n)}
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return AccessKey{}, &AccessKeyError{Key: key, Reason: fmt.Sprintf("non-digit at position %d", i+1)}
		}
	}

	return AccessKey{
		Key:          key,
		Jurisdiction: key[0:2],
		YearMonth:    key[2:6],
		TaxpayerID:   key[6:20],
		Model:        key[20:22],
		Series:       key[22:25],
		Number:       key[25:34],
		EmissionType: key[34:35],
		NumericCode:  key[35:43],
		CheckDigit:   key[43:44],
	}, nil
}

// ExpectedCheckDigit computes the modulo-11 check digit over the first 43
// digits, with weights 2 to 9 cycling from the right. It returns "" when
// the key is not 44 digits long.
func (k AccessKey) ExpectedCheckDigit() string {
	if len(k.Key) != AccessKeyLength {
		return ""
	}
	sum, weight := 0, 2
	for i := AccessKeyLength - 2; i >= 0; i-- {
		sum += int(k.Key[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	dv := 11 - sum%11
	if dv >= 10 {
		dv = 0
	}
	return string(rune('0' + dv))
}

// CheckDigitValid reports whether the key's last digit matches its
// computed check digit.
func (k AccessKey) CheckDigitValid() bool {
	return len(k.Key) == AccessKeyLength && k.ExpectedCheckDigit() == k.CheckDigit
}
