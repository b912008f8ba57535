package card

import (
	"time"

	"golang.org/x/text/language"
)

// numeric day/month/year layouts per base language
var dateLayouts = map[string]string{
	"en": "1/2/2006",
	"ja": "2006/1/2",
	"zh": "2006/1/2",
	"ko": "2006. 1. 2.",
	"de": "2.1.2006",
}

const fallbackDateLayout = "2/1/2006"

// FormatDate renders t as a numeric date in the conventions of tag
func FormatDate(t time.Time, tag language.Tag) string {
	base, _ := tag.Base()
	layout, ok := dateLayouts[base.String()]
	if !ok {
		layout = fallbackDateLayout
	}
	return t.Format(layout)
}
