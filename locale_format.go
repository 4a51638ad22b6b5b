package fluent

import "golang.org/x/text/language"

// localeFormat holds the layout conventions that x/text does not provide:
// where the currency symbol goes and Go time layouts per date style. Month
// and weekday names are only spelled out for English; other locales use
// numeric layouts for every style.
type localeFormat struct {
	currencyPosition string // "before" or "after"
	hour12           bool
	dateShort        string
	dateMedium       string
	dateLong         string
	dateFull         string
	dateTimeSep      string
}

var formatEnUS = localeFormat{
	currencyPosition: "before",
	hour12:           true,
	dateShort:        "1/2/06",
	dateMedium:       "Jan 2, 2006",
	dateLong:         "January 2, 2006",
	dateFull:         "Monday, January 2, 2006",
	dateTimeSep:      ", ",
}

// numeric returns a format whose every date style uses layout.
func numeric(position string, hour12 bool, short, layout, sep string) localeFormat {
	return localeFormat{
		currencyPosition: position,
		hour12:           hour12,
		dateShort:        short,
		dateMedium:       layout,
		dateLong:         layout,
		dateFull:         layout,
		dateTimeSep:      sep,
	}
}

// localeFormats is keyed by "lang-REGION" first and "lang" second.
var localeFormats = map[string]localeFormat{
	"en": formatEnUS,
	"en-GB": {
		currencyPosition: "before",
		dateShort:        "02/01/2006",
		dateMedium:       "2 Jan 2006",
		dateLong:         "2 January 2006",
		dateFull:         "Monday, 2 January 2006",
		dateTimeSep:      ", ",
	},
	"en-AU": {
		currencyPosition: "before",
		hour12:           true,
		dateShort:        "2/1/06",
		dateMedium:       "2 Jan 2006",
		dateLong:         "2 January 2006",
		dateFull:         "Monday, 2 January 2006",
		dateTimeSep:      ", ",
	},
	"de":    numeric("after", false, "02.01.06", "02.01.2006", ", "),
	"fr":    numeric("after", false, "02/01/2006", "02/01/2006", " "),
	"es":    numeric("after", false, "2/1/06", "02/01/2006", ", "),
	"it":    numeric("after", false, "02/01/06", "02/01/2006", ", "),
	"pt":    numeric("after", false, "02/01/2006", "02/01/2006", ", "),
	"pt-BR": numeric("before", false, "02/01/2006", "02/01/2006", ", "),
	"nl":    numeric("before", false, "02-01-2006", "02-01-2006", " "),
	"pl":    numeric("after", false, "02.01.2006", "02.01.2006", ", "),
	"ru":    numeric("after", false, "02.01.2006", "02.01.2006", ", "),
	"uk":    numeric("after", false, "02.01.06", "02.01.2006", ", "),
	"ja":    numeric("before", false, "2006/01/02", "2006/01/02", " "),
	"zh":    numeric("before", false, "2006/1/2", "2006-01-02", " "),
	"ko":    numeric("before", true, "06. 1. 2.", "2006. 1. 2.", " "),
	"ar":    numeric("after", true, "2/1/2006", "02/01/2006", " "),
}

func lookupLocaleFormat(tag language.Tag) localeFormat {
	base, _, region := tag.Raw()
	if f, ok := localeFormats[base.String()+"-"+region.String()]; ok {
		return f
	}
	if f, ok := localeFormats[base.String()]; ok {
		return f
	}
	return formatEnUS
}

// timeLayout returns the layout of a time of day; seconds adds the seconds
// field and zone the zone abbreviation.
func (f localeFormat) timeLayout(hour12, seconds, zone bool) string {
	layout := "15:04"
	if hour12 {
		layout = "3:04"
	}
	if seconds {
		layout += ":05"
	}
	if hour12 {
		layout += " PM"
	}
	if zone {
		layout += " MST"
	}
	return layout
}

func (f localeFormat) dateLayout(style string) string {
	switch style {
	case "full":
		return f.dateFull
	case "long":
		return f.dateLong
	case "medium":
		return f.dateMedium
	}
	return f.dateShort
}
