package model

import (
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s.]+`)

// DefaultLabeler turns a field name or option value into sentence-case copy:
// "firstName" becomes "First name", "passport_number" becomes
// "Passport number". Words written fully in capitals ("ID", "USD") keep
// their case.
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	var words []string
	for _, chunk := range splitWordsPattern.Split(name, -1) {
		if chunk == "" {
			continue
		}
		words = append(words, splitCamel(chunk)...)
	}
	for i, word := range words {
		if isAcronym(word) {
			continue
		}
		word = strings.ToLower(word)
		if i == 0 {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		words[i] = word
	}
	return strings.Join(words, " ")
}

// splitCamel breaks "passportIDNumber" into "passport", "ID", "Number".
func splitCamel(input string) []string {
	var (
		words []string
		start int
	)
	for i := 1; i < len(input); i++ {
		prev, cur := input[i-1], input[i]
		next := byte(0)
		if i+1 < len(input) {
			next = input[i+1]
		}
		boundary := (isLower(prev) && isUpper(cur)) ||
			(isUpper(prev) && isUpper(cur) && isLower(next)) ||
			(isLetter(prev) && isDigit(cur)) ||
			(isDigit(prev) && isLetter(cur))
		if boundary {
			words = append(words, input[start:i])
			start = i
		}
	}
	return append(words, input[start:])
}

func isAcronym(word string) bool {
	if len(word) < 2 {
		return false
	}
	for i := 0; i < len(word); i++ {
		if !isUpper(word[i]) && !isDigit(word[i]) {
			return false
		}
	}
	return true
}

func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return isUpper(c) || isLower(c) }
