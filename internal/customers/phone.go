package customers

import "strings"

// NormalizePhone strips everything but digits and folds the +92
// country code onto the local 0-prefixed form, so "+92 300 1234567"
// and "0300-1234567" collapse onto the same key for dedup and lookups.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0092") {
		return "0" + digits[4:]
	}
	if strings.HasPrefix(digits, "92") && len(digits) > 10 {
		return "0" + digits[2:]
	}
	return digits
}

// IsDHAAddress reports whether the address text references a DHA or
// Defence locality.
func IsDHAAddress(address, city string) bool {
	text := strings.ToLower(address + " " + city)
	return strings.Contains(text, "dha") || strings.Contains(text, "defence")
}
