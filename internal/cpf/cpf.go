// Package cpf validates Brazilian individual taxpayer numbers.
package cpf

import "strings"

// Strip removes everything that is not a digit.
func Strip(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether s is a well-formed CPF with correct check digits.
// Non-digit characters are stripped first. Numbers made of a single
// repeated digit pass the checksum but are not valid CPFs.
func Valid(s string) bool {
	digits := Strip(s)
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if checkDigit(digits, 9, 10) != int(digits[9]-'0') {
		return false
	}
	return checkDigit(digits, 10, 11) == int(digits[10]-'0')
}

// checkDigit computes the verifier over the first n digits with weights
// startWeight down to 2; (sum*10)%11 maps 10 and 11 to 0.
func checkDigit(digits string, n, startWeight int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (startWeight - i)
	}
	d := (sum * 10) % 11
	if d >= 10 {
		return 0
	}
	return d
}
