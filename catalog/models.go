package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind names a record type. It doubles as the output directory of its
// documents.
type Kind string

const (
	KindArtist     Kind = "artists"
	KindSong       Kind = "songs"
	KindCollection Kind = "collections"
)

// Color is a packed 0xRRGGBB value. YAML accepts integers (0x336699) and
// "#336699" strings.
type Color uint32

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	s := strings.TrimSpace(n.Value)
	if strings.HasPrefix(s, "#") {
		s = "0x" + s[1:]
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil || v > 0xffffff {
		return fmt.Errorf("line %d: invalid colour %q", n.Line, n.Value)
	}
	*c = Color(v)
	return nil
}

// Artist is a performer or composer.
type Artist struct {
	Slug  string `yaml:"slug"`
	Name  string `yaml:"name"`
	Color Color  `yaml:"color"`
	Image string `yaml:"image"`

	Source string  `yaml:"-"`
	Songs  []*Song `yaml:"-"`
}

// Song is the lyrics and chords of one song.
type Song struct {
	Slug          string    `yaml:"slug"`
	Title         string    `yaml:"title"`
	Tone          string    `yaml:"tone"`
	Text          string    `yaml:"song"`
	Date          time.Time `yaml:"date"`
	Modified      time.Time `yaml:"modified"`
	Year          int       `yaml:"year"`
	PerformerSlug string    `yaml:"performer-slug"`
	ComposerSlug  string    `yaml:"composer-slug"`
	TwoColumns    bool      `yaml:"two-columns"`

	Source    string  `yaml:"-"`
	Performer *Artist `yaml:"-"`
	Composer  *Artist `yaml:"-"`
}

// Revised returns the date of the last revision, falling back to the
// creation date.
func (s *Song) Revised() time.Time {
	if !s.Modified.IsZero() {
		return s.Modified
	}
	return s.Date
}

// Collection is a named, ordered list of songs.
type Collection struct {
	Slug      string    `yaml:"slug"`
	Title     string    `yaml:"title"`
	Date      time.Time `yaml:"date"`
	Modified  time.Time `yaml:"modified"`
	SongSlugs []string  `yaml:"song-slugs"`

	Source string  `yaml:"-"`
	Songs  []*Song `yaml:"-"`
}

var mandatory = map[Kind][]string{
	KindArtist:     {"name"},
	KindSong:       {"title", "tone", "song"},
	KindCollection: {"title", "song-slugs"},
}

// Catalog is the linked record graph. It is read-only once built.
type Catalog struct {
	Artists     []*Artist
	Songs       []*Song
	Collections []*Collection
}

// Artist returns the artist with slug.
func (c *Catalog) Artist(slug string) (*Artist, bool) {
	for _, a := range c.Artists {
		if a.Slug == slug {
			return a, true
		}
	}
	return nil, false
}

// Song returns the song with slug.
func (c *Catalog) Song(slug string) (*Song, bool) {
	for _, s := range c.Songs {
		if s.Slug == slug {
			return s, true
		}
	}
	return nil, false
}

// Collection returns the collection with slug.
func (c *Catalog) Collection(slug string) (*Collection, bool) {
	for _, col := range c.Collections {
		if col.Slug == slug {
			return col, true
		}
	}
	return nil, false
}
