package browse

import "golang.org/x/text/language"

// Application locales and the provider language tags they map to. The
// provider wants a full BCP-47 tag with region, not the bare UI locale.
var localeTags = map[string]string{
	"en": "en-US",
	"pl": "pl-PL",
	"uk": "uk-UA",
}

const fallbackTag = "en-US"

var localeMatcher = language.NewMatcher([]language.Tag{
	language.MustParse("en-US"),
	language.MustParse("pl-PL"),
	language.MustParse("uk-UA"),
})

// LanguageTag translates an application locale code into the provider's
// language tag. Unknown but parseable locales are matched against the
// supported set; anything else falls back to en-US.
func LanguageTag(locale string) string {
	if tag, ok := localeTags[locale]; ok {
		return tag
	}

	parsed, err := language.Parse(locale)
	if err != nil {
		return fallbackTag
	}

	_, index, confidence := localeMatcher.Match(parsed)
	if confidence == language.No {
		return fallbackTag
	}
	switch index {
	case 1:
		return "pl-PL"
	case 2:
		return "uk-UA"
	default:
		return fallbackTag
	}
}
