// Package validate holds the pure format validators run before any registry
// state mutation. No side effects; each function returns the typed failure
// for its field or nil.
package validate

import (
	"strings"

	"rollbook/internal/member/models"
)

const (
	maxLocalPartLen  = 64
	maxDomainPartLen = 253

	minMobileDigits = 7
	maxMobileDigits = 15

	minYear = 1900
	maxYear = 2100
)

// Email checks the address shape: exactly one '@'; local part 1-64 chars of
// [A-Za-z0-9._+-] with no leading, trailing, or consecutive dots; domain
// part 1-253 chars of [A-Za-z0-9.-] containing at least one dot and no
// leading or trailing dot or hyphen.
func Email(email string) error {
	at := strings.IndexByte(email, '@')
	if at < 0 || strings.IndexByte(email[at+1:], '@') >= 0 {
		return models.ErrInvalidEmailFormat
	}

	local, domain := email[:at], email[at+1:]
	if len(local) < 1 || len(local) > maxLocalPartLen {
		return models.ErrInvalidEmailFormat
	}
	if local[0] == '.' || local[len(local)-1] == '.' || strings.Contains(local, "..") {
		return models.ErrInvalidEmailFormat
	}
	for i := 0; i < len(local); i++ {
		if !isLocalChar(local[i]) {
			return models.ErrInvalidEmailFormat
		}
	}

	if len(domain) < 1 || len(domain) > maxDomainPartLen {
		return models.ErrInvalidEmailFormat
	}
	if !strings.Contains(domain, ".") {
		return models.ErrInvalidEmailFormat
	}
	if domain[0] == '.' || domain[0] == '-' {
		return models.ErrInvalidEmailFormat
	}
	if last := domain[len(domain)-1]; last == '.' || last == '-' {
		return models.ErrInvalidEmailFormat
	}
	for i := 0; i < len(domain); i++ {
		if !isDomainChar(domain[i]) {
			return models.ErrInvalidEmailFormat
		}
	}
	return nil
}

// Mobile checks an optional leading '+' followed by 7-15 ASCII digits and
// nothing else.
func Mobile(mobile string) error {
	digits := mobile
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}
	if len(digits) < minMobileDigits || len(digits) > maxMobileDigits {
		return models.ErrInvalidMobileFormat
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return models.ErrInvalidMobileFormat
		}
	}
	return nil
}

// DateOfBirth checks the exact 10-character YYYY-MM-DD shape with
// year 1900-2100, month 01-12, day 01-31. Month length and leap years are
// deliberately not cross-checked.
func DateOfBirth(dob string) error {
	if len(dob) != 10 || dob[4] != '-' || dob[7] != '-' {
		return models.ErrInvalidDateFormat
	}
	for i := 0; i < 10; i++ {
		if i == 4 || i == 7 {
			continue
		}
		if dob[i] < '0' || dob[i] > '9' {
			return models.ErrInvalidDateFormat
		}
	}
	year := atoi4(dob[0:4])
	month := atoi2(dob[5:7])
	day := atoi2(dob[8:10])
	if year < minYear || year > maxYear {
		return models.ErrInvalidDateFormat
	}
	if month < 1 || month > 12 {
		return models.ErrInvalidDateFormat
	}
	if day < 1 || day > 31 {
		return models.ErrInvalidDateFormat
	}
	return nil
}

func isLocalChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '_', c == '-', c == '+':
		return true
	}
	return false
}

func isDomainChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '-':
		return true
	}
	return false
}

// atoi4/atoi2 parse fixed-width digit runs already verified above.

func atoi4(s string) int {
	return int(s[0]-'0')*1000 + int(s[1]-'0')*100 + int(s[2]-'0')*10 + int(s[3]-'0')
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
