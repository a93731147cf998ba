package spell

import (
	"strings"
	"unicode"
)

// casing classes, checked in order.
type casingClass int

const (
	caseAllUpper casingClass = iota
	caseAllLower
	caseTitle
	caseMixed
)

// classifyCasing inspects the letters of s. Strings without letters count as
// all-lower, so the target comes back lower-cased.
func classifyCasing(s string) casingClass {
	letters := 0
	upper := 0
	firstUpper := false
	restLower := true
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
			if letters == 1 {
				firstUpper = true
			} else {
				restLower = false
			}
		}
	}
	switch {
	case letters == 0 || upper == 0:
		return caseAllLower
	case upper == letters:
		return caseAllUpper
	case firstUpper && restLower:
		return caseTitle
	default:
		return caseMixed
	}
}

// TransferCase maps target's letters to mirror source's casing class:
// all-upper, all-lower, title case, or a character-by-character mirror of the
// source's case flags truncated or padded to the target length. Non-letter
// source positions pass through as lower-case target characters.
func TransferCase(source, target string) string {
	switch classifyCasing(source) {
	case caseAllUpper:
		return strings.ToUpper(target)
	case caseAllLower:
		return strings.ToLower(target)
	case caseTitle:
		runes := []rune(strings.ToLower(target))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		return string(runes)
	}
	srcRunes := []rune(source)
	tgtRunes := []rune(target)
	for i := range tgtRunes {
		if i < len(srcRunes) && unicode.IsLetter(srcRunes[i]) && unicode.IsUpper(srcRunes[i]) {
			tgtRunes[i] = unicode.ToUpper(tgtRunes[i])
		} else {
			tgtRunes[i] = unicode.ToLower(tgtRunes[i])
		}
	}
	return string(tgtRunes)
}
