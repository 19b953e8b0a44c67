package delivery

import (
	"time"

	calldomain "callboard/internal/call/domain"

	"golang.org/x/text/language"
)

type localeLayout struct {
	tag    language.Tag
	layout string
}

// The first entry is the fallback when nothing in Accept-Language matches.
var localeLayouts = []localeLayout{
	{language.AmericanEnglish, "1/2/2006, 3:04:05 PM"},
	{language.BritishEnglish, "02/01/2006, 15:04:05"},
	{language.German, "2.1.2006, 15:04:05"},
	{language.French, "02/01/2006 15:04:05"},
	{language.Spanish, "2/1/2006, 15:04:05"},
	{language.Italian, "2/1/2006, 15:04:05"},
	{language.Dutch, "2-1-2006, 15:04:05"},
	{language.Portuguese, "02/01/2006, 15:04:05"},
	{language.Japanese, "2006/1/2 15:04:05"},
	{language.Chinese, "2006/1/2 15:04:05"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(localeLayouts))
	for i, l := range localeLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// DateFormatter renders call start times in the viewer's locale.
type DateFormatter struct {
	loc *time.Location
}

func NewDateFormatter(loc *time.Location) *DateFormatter {
	if loc == nil {
		loc = time.Local
	}
	return &DateFormatter{loc: loc}
}

// Layout picks the time layout for an Accept-Language header value.
func (f *DateFormatter) Layout(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return localeLayouts[0].layout
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return localeLayouts[0].layout
	}
	return localeLayouts[idx].layout
}

// Format renders r.StartedAt with layout, or returns it unchanged if it does not parse.
func (f *DateFormatter) Format(r calldomain.CallRecord, layout string) string {
	t, ok := r.StartedTime()
	if !ok {
		return r.StartedAt
	}
	return t.In(f.loc).Format(layout)
}
