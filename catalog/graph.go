package catalog

import (
	"log/slog"
	"slices"
)

// Link connects songs to their performers and composers and collections to
// their songs. A song joins the song list of each linked artist once.
// Unresolved slugs are logged, returned and left out; the record holding
// them is kept.
func Link(artists []*Artist, songs []*Song, collections []*Collection, logger *slog.Logger) (*Catalog, []error) {
	if logger == nil {
		logger = slog.Default()
	}
	var problems []error
	report := func(err *UnresolvedReferenceError) {
		logger.Warn("cannot link record", "path", err.Source, "field", err.Field, "slug", err.Slug)
		problems = append(problems, err)
	}

	bySlug := make(map[string]*Artist, len(artists))
	cat := &Catalog{}
	for _, a := range artists {
		if _, dup := bySlug[a.Slug]; dup {
			logger.Warn("duplicate artist slug", "slug", a.Slug, "path", a.Source)
			continue
		}
		a.Songs = nil
		bySlug[a.Slug] = a
		cat.Artists = append(cat.Artists, a)
	}

	songBySlug := make(map[string]*Song, len(songs))
	for _, s := range songs {
		if _, dup := songBySlug[s.Slug]; dup {
			logger.Warn("duplicate song slug", "slug", s.Slug, "path", s.Source)
			continue
		}
		songBySlug[s.Slug] = s
		cat.Songs = append(cat.Songs, s)

		s.Performer, s.Composer = nil, nil
		for _, ref := range []struct {
			field string
			slug  string
			dst   **Artist
		}{
			{"performer-slug", s.PerformerSlug, &s.Performer},
			{"composer-slug", s.ComposerSlug, &s.Composer},
		} {
			if ref.slug == "" {
				continue
			}
			a, ok := bySlug[ref.slug]
			if !ok {
				report(&UnresolvedReferenceError{Source: s.Source, Field: ref.field, Slug: ref.slug})
				continue
			}
			*ref.dst = a
			if !slices.Contains(a.Songs, s) {
				a.Songs = append(a.Songs, s)
			}
		}
	}

	for _, c := range collections {
		c.Songs = nil
		for _, slug := range c.SongSlugs {
			s, ok := songBySlug[slug]
			if !ok {
				report(&UnresolvedReferenceError{Source: c.Source, Field: "song-slugs", Slug: slug})
				continue
			}
			c.Songs = append(c.Songs, s)
		}
		cat.Collections = append(cat.Collections, c)
	}
	return cat, problems
}

// Sort orders artists by name and songs by title with compare, which is
// expected to be locale aware. Collections keep their listed song order.
func (c *Catalog) Sort(compare func(a, b string) int) {
	bySongTitle := func(a, b *Song) int { return compare(a.Title, b.Title) }
	slices.SortStableFunc(c.Artists, func(a, b *Artist) int { return compare(a.Name, b.Name) })
	slices.SortStableFunc(c.Songs, bySongTitle)
	for _, a := range c.Artists {
		slices.SortStableFunc(a.Songs, bySongTitle)
	}
	slices.SortStableFunc(c.Collections, func(a, b *Collection) int { return compare(a.Title, b.Title) })
}
