package songbook

import "fmt"

type tocPhase int

const (
	phaseDiscovery tocPhase = iota
	phaseResolution
	phaseDone
)

// TOCResolver records song title positions across the two layout passes.
//
// During discovery every placed title is recorded with the page it landed
// on. Resolution re-runs the layout with a table of contents built from
// those entries, which are final from then on. The positions seen during
// resolution are only compared against the recorded ones: a mismatch is
// reported as stale, never corrected, so a table of contents long enough to
// push the songs further back shows the pass one numbers.
type TOCResolver struct {
	phase    tocPhase
	seq      int
	recorded []TOCEntry
	seen     []TOCEntry
}

// NewTOCResolver returns a resolver in the discovery phase.
func NewTOCResolver() *TOCResolver {
	return &TOCResolver{}
}

// Record notes a title placed on page and returns its bookmark key. Keys
// restart with every pass so that both passes agree on them.
func (r *TOCResolver) Record(title string, page int) string {
	r.seq++
	key := fmt.Sprintf("song-title-%d", r.seq)
	entry := TOCEntry{Title: title, Key: key, Page: page}
	switch r.phase {
	case phaseDiscovery:
		r.recorded = append(r.recorded, entry)
	case phaseResolution:
		r.seen = append(r.seen, entry)
	}
	return key
}

// Resolve ends discovery and returns the recorded entries for building the
// final table of contents.
func (r *TOCResolver) Resolve() []TOCEntry {
	r.phase = phaseResolution
	r.seq = 0
	res := make([]TOCEntry, len(r.recorded))
	copy(res, r.recorded)
	return res
}

// Finish ends resolution and reports stale entries.
func (r *TOCResolver) Finish() []StaleEntry {
	r.phase = phaseDone
	actual := make(map[string]int, len(r.seen))
	for _, e := range r.seen {
		actual[e.Key] = e.Page
	}
	var stale []StaleEntry
	for _, e := range r.recorded {
		if page, ok := actual[e.Key]; ok && page != e.Page {
			stale = append(stale, StaleEntry{TOCEntry: e, Actual: page})
		}
	}
	return stale
}

// Entries returns the final entries. It fails until both passes are done.
func (r *TOCResolver) Entries() ([]TOCEntry, error) {
	if r.phase != phaseDone {
		return nil, ErrTOCUnresolved
	}
	res := make([]TOCEntry, len(r.recorded))
	copy(res, r.recorded)
	return res, nil
}
