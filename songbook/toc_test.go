package songbook

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTOCResolverPhases(t *testing.T) {
	r := NewTOCResolver()
	if _, err := r.Entries(); !errors.Is(err, ErrTOCUnresolved) {
		t.Fatalf("entries before resolution: %v", err)
	}

	if k := r.Record("One", 3); k != "song-title-1" {
		t.Errorf("first key = %q", k)
	}
	r.Record("Two", 4)
	resolved := r.Resolve()
	want := []TOCEntry{{"One", "song-title-1", 3}, {"Two", "song-title-2", 4}}
	if diff := cmp.Diff(want, resolved); diff != "" {
		t.Errorf("resolved (-want +got):\n%s", diff)
	}
	if _, err := r.Entries(); !errors.Is(err, ErrTOCUnresolved) {
		t.Errorf("entries readable during resolution")
	}

	// second pass: keys restart, the second title moved
	if k := r.Record("One", 3); k != "song-title-1" {
		t.Errorf("second pass key = %q", k)
	}
	r.Record("Two", 5)
	stale := r.Finish()
	if diff := cmp.Diff([]StaleEntry{{TOCEntry: want[1], Actual: 5}}, stale); diff != "" {
		t.Errorf("stale (-want +got):\n%s", diff)
	}
	got, err := r.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("final entries keep pass one pages (-want +got):\n%s", diff)
	}
}
