package classifier

import (
	"unicode"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// Result holds the outcome of classifying a piece of text.
type Result struct {
	Language model.Language
	Han      int
	Latin    int
}

// Classify labels text by counting CJK ideographs and Latin letters.
// Both zero → UNKNOWN; only Latin → EN; only Han → ZH-HK; both → BOTH.
// A single English acronym in Chinese prose yields BOTH.
func Classify(text string) Result {
	var res Result
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			res.Han++
		case isLatinLetter(r):
			res.Latin++
		}
	}
	res.Language = decide(res.Han, res.Latin)
	return res
}

func decide(han, latin int) model.Language {
	switch {
	case han > 0 && latin > 0:
		return model.LangBoth
	case han > 0:
		return model.LangZHHK
	case latin > 0:
		return model.LangEN
	default:
		return model.LangUnknown
	}
}

// isLatinLetter reports ASCII letters plus Latin-script letters such as é.
func isLatinLetter(r rune) bool {
	if r < 0x80 {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	return unicode.Is(unicode.Latin, r) && unicode.IsLetter(r)
}
