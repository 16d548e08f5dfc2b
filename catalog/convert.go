package catalog

import "github.com/opd-ai/chordbook/songbook"

// Performer returns the page decoration data of a, decoding its colour. A
// nil artist yields an anonymous black performer.
func (a *Artist) Performer() songbook.Performer {
	if a == nil {
		return songbook.Performer{Color: songbook.Black}
	}
	return songbook.Performer{
		Name:  a.Name,
		Color: songbook.DecodeColor(uint32(a.Color)),
		Image: a.Image,
	}
}

// Book returns the layout input of s.
func (s *Song) Book() songbook.Song {
	return songbook.Song{
		Slug:       s.Slug,
		Title:      s.Title,
		Tone:       s.Tone,
		Modified:   s.Revised(),
		TwoColumns: s.TwoColumns,
		Performer:  s.Performer.Performer(),
		Blocks:     ParseSong(s.Text),
	}
}

func books(songs []*Song) []songbook.Song {
	res := make([]songbook.Song, len(songs))
	for i, s := range songs {
		res[i] = s.Book()
	}
	return res
}

// Books returns the layout input of the artist's songs.
func (a *Artist) Books() []songbook.Song {
	return books(a.Songs)
}

// Books returns the layout input of the collection's songs.
func (c *Collection) Books() []songbook.Song {
	return books(c.Songs)
}

// Groups returns one group per artist holding the songs it performs, then
// one group for songs without a performer, so that every song appears once
// in a catalogue of the whole repository.
func (c *Catalog) Groups() []songbook.Group {
	res := make([]songbook.Group, 0, len(c.Artists)+1)
	for _, a := range c.Artists {
		var performed []*Song
		for _, s := range a.Songs {
			if s.Performer == a {
				performed = append(performed, s)
			}
		}
		res = append(res, songbook.Group{Slug: a.Slug, Name: a.Name, Songs: books(performed)})
	}
	var orphans []*Song
	for _, s := range c.Songs {
		if s.Performer == nil {
			orphans = append(orphans, s)
		}
	}
	if len(orphans) > 0 {
		res = append(res, songbook.Group{Slug: "unattributed", Songs: books(orphans)})
	}
	return res
}
