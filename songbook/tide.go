package songbook

// PlaceFunc is called for every unit as it is placed, with the number of
// the page receiving it. The returned unit is the one stored on the page.
type PlaceFunc func(u LayoutUnit, page int) LayoutUnit

// Paginate flows sections into pages, numbering them from first. Each
// section starts on a new page.
//
// Within a frame units are stacked top down. The first unit of a frame is
// always placed, even when it is taller than the frame, so that every frame
// makes progress. Any later unit that does not fit into the remaining height
// moves to the next frame of the page, or to a new page after the last
// frame. Units are never split.
func Paginate(sections []Section, first int, onPlace PlaceFunc) []Page {
	var pages []Page
	number := first
	for _, sec := range sections {
		secPages := flowSection(sec, number, onPlace)
		number += len(secPages)
		pages = append(pages, secPages...)
	}
	return pages
}

func flowSection(sec Section, number int, onPlace PlaceFunc) []Page {
	newPage := func(i int) Page {
		tpl := sec.Template(i)
		return Page{
			Number:   number + i,
			Template: tpl,
			Scheme:   tpl.Scheme(),
			Frames:   sec.Frames,
			Song:     sec.Song,
		}
	}

	pages := []Page{newPage(0)}
	cur := &pages[0]
	col := 0
	used := 0.0
	inFrame := 0
	for _, u := range sec.Units {
		if inFrame > 0 && u.Height > sec.Frames[col].Usable()-used {
			col++
			if col == len(sec.Frames) {
				pages = append(pages, newPage(len(pages)))
				cur = &pages[len(pages)-1]
				col = 0
			}
			used = 0
			inFrame = 0
		}
		if onPlace != nil {
			u = onPlace(u, cur.Number)
		}
		cur.Placed = append(cur.Placed, Placement{
			Unit:  u,
			Frame: col,
			Y:     sec.Frames[col].Top() + used,
		})
		used += u.Height
		inFrame++
	}
	return pages
}
