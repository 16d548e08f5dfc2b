// Package config holds the export settings. Settings only change the text
// printed on pages, never their geometry.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"github.com/ncruces/go-strftime"
	"github.com/opd-ai/chordbook/catalog"
	"github.com/opd-ai/chordbook/songbook"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Labels are the visible strings of the documents.
type Labels struct {
	TOCHeading      string `yaml:"tocHeading"`
	Tone            string `yaml:"tone"`
	Compiled        string `yaml:"compiled"`
	TOCPlaceholder  string `yaml:"tocPlaceholder"`
	ArtistCover     string `yaml:"artistCover"`
	CollectionCover string `yaml:"collectionCover"`
	ChordbookCover  string `yaml:"chordbookCover"`
	// BookTitle is the title of aggregate documents; %s stands for the
	// site URL.
	BookTitle   string `yaml:"bookTitle"`
	BookSubject string `yaml:"bookSubject"`
	SongSubject string `yaml:"songSubject"`
}

// Settings configure an export. Every field is optional.
type Settings struct {
	SiteURL    string         `yaml:"siteUrl"`
	Author     string         `yaml:"author"`
	DateFormat string         `yaml:"dateFormat"`
	Locales    []string       `yaml:"locales"`
	Labels     Labels         `yaml:"labels"`
	Content    catalog.Layout `yaml:"content"`
}

// Default returns the settings used for absent keys.
func Default() Settings {
	return Settings{
		SiteURL:    "http://example.com",
		Author:     "Unknown Editor",
		DateFormat: "%d/%m/%Y",
		Locales:    []string{"en"},
		Labels: Labels{
			TOCHeading:      songbook.DefaultLabels.TOCHeading,
			Tone:            songbook.DefaultLabels.Tone,
			Compiled:        songbook.DefaultLabels.Compiled,
			TOCPlaceholder:  songbook.DefaultLabels.TOCPlaceholder,
			ArtistCover:     "Artist",
			CollectionCover: "Collection",
			ChordbookCover:  "Chordbook",
			BookTitle:       "Songs from %s",
			BookSubject:     "Lyrics and chords collection",
			SongSubject:     "Lyrics and chords",
		},
		Content: catalog.DefaultLayout(),
	}
}

// Load reads settings from a YAML file over the defaults. An empty path
// or a missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("error reading settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("error parsing settings %s: %w", path, err)
	}
	return s, nil
}

// FormatDate renders t with the strftime layout of DateFormat in the
// configured locale.
func (s Settings) FormatDate(t time.Time) string {
	tag, _ := s.locale()
	return s.DateFormatter(tag)(t)
}

// DateFormatter returns a formatter for DateFormat printing month and day
// names in the language of tag. Layouts with no Go equivalent, and
// languages without translated names, are printed in English.
func (s Settings) DateFormatter(tag language.Tag) func(time.Time) string {
	format := s.DateFormat
	layout, err := strftime.Layout(format)
	loc, ok := dateLocale(tag)
	if err != nil || !ok {
		return func(t time.Time) string { return strftime.Format(format, t) }
	}
	return func(t time.Time) string { return monday.Format(t, layout, loc) }
}

var dateLocales = func() map[monday.Locale]bool {
	m := make(map[monday.Locale]bool)
	for _, l := range monday.ListLocales() {
		m[l] = true
	}
	return m
}()

// dateLocale maps tag to a locale with translated names, completing a
// bare language with its most likely region.
func dateLocale(tag language.Tag) (monday.Locale, bool) {
	base, _ := tag.Base()
	region, _ := tag.Region()
	loc := monday.Locale(base.String() + "_" + region.String())
	return loc, dateLocales[loc]
}

// BookLabels returns the labels printed by the layout engine.
func (s Settings) BookLabels() songbook.Labels {
	return songbook.Labels{
		TOCHeading:     s.Labels.TOCHeading,
		Tone:           s.Labels.Tone,
		Compiled:       s.Labels.Compiled,
		TOCPlaceholder: s.Labels.TOCPlaceholder,
	}
}

// BookMeta returns the document information of an aggregate document.
func (s Settings) BookMeta(creator string) songbook.Meta {
	return songbook.Meta{
		Author:  s.Author,
		Title:   strings.ReplaceAll(s.Labels.BookTitle, "%s", s.SiteURL),
		Subject: s.Labels.BookSubject,
		Creator: creator,
	}
}

// SongMeta returns the document information of a single song.
func (s Settings) SongMeta(title, creator string) songbook.Meta {
	return songbook.Meta{
		Author:  s.Author,
		Title:   title,
		Subject: s.Labels.SongSubject,
		Creator: creator,
	}
}

// RenderContext returns the page decoration context with dates in the
// language of tag. Artwork is set by the PDF writer.
func (s Settings) RenderContext(tag language.Tag) songbook.RenderContext {
	return songbook.RenderContext{
		Geometry:   songbook.DefaultGeometry,
		SiteURL:    s.SiteURL,
		Labels:     s.BookLabels(),
		FormatDate: s.DateFormatter(tag),
	}
}
