package matching

import (
	"strings"
	"unicode"
)

// soundexCodes maps each consonant to its soundex digit group. Letters
// absent from the map (vowels, H, Y) are treated as code '0'; W is
// coded with the labials so that -ov/-ow spellings agree.
var soundexCodes = map[byte]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1', 'W': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

func soundexCode(c byte) byte {
	if code, ok := soundexCodes[c]; ok {
		return code
	}
	return '0'
}

// Soundex generates a 6-character soundex code for a player name,
// tolerant of the transliteration variants common in chess archives
// (Fischer/Fisher, Kasparov/Kasparow, and the like share a code).
func Soundex(name string) string {
	letters := onlyLetters(name)
	if letters == "" {
		return ""
	}

	result := make([]byte, 1, 6)
	result[0] = letters[0]

	lastCode := soundexCode(letters[0])
	for i := 1; i < len(letters) && len(result) < 6; i++ {
		code := soundexCode(letters[i])
		if code != '0' && code != lastCode {
			result = append(result, code)
		}
		if code != '0' {
			lastCode = code
		}
	}
	for len(result) < 6 {
		result = append(result, '0')
	}
	return string(result)
}

// onlyLetters uppercases name and strips everything but letters.
func onlyLetters(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SoundexMatch reports whether two names share a soundex code.
func SoundexMatch(name1, name2 string) bool {
	return Soundex(name1) == Soundex(name2)
}
