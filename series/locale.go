package series

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// DateFormatter renders the label of every point except the last.
type DateFormatter interface {
	Format(t time.Time) string
}

// LayoutFormatter formats dates with a time.Format layout.
type LayoutFormatter string

func (l LayoutFormatter) Format(t time.Time) string {
	return t.Format(string(l))
}

// DefaultFormatter matches the en-US short date, e.g. 1/2/2006.
var DefaultFormatter DateFormatter = LayoutFormatter("1/2/2006")

// Short date layouts, first entry is the fallback for unmatched locales.
var shortDates = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.MustParse("en-CA"), "2006-01-02"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Spanish, "2/1/2006"},
	{language.Italian, "2/1/2006"},
	{language.Dutch, "2-1-2006"},
	{language.Russian, "02.01.2006"},
	{language.Polish, "2.01.2006"},
	{language.Turkish, "02.01.2006"},
	{language.Swedish, "2006-01-02"},
	{language.Japanese, "2006/1/2"},
	{language.Chinese, "2006/1/2"},
	{language.Korean, "2006. 1. 2."},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(shortDates))
	for i, d := range shortDates {
		tags[i] = d.tag
	}
	return language.NewMatcher(tags)
}()

// FormatterForLocale picks the short date layout closest to the BCP 47 locale.
// Unknown but well-formed locales fall back to en-US.
func FormatterForLocale(locale string) (DateFormatter, error) {
	if locale == "" {
		return DefaultFormatter, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return DefaultFormatter, nil
	}
	return LayoutFormatter(shortDates[idx].layout), nil
}
