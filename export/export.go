// Package export turns a loaded catalog into PDF files, one document per
// song, artist and collection plus a chordbook of everything.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/opd-ai/chordbook/catalog"
	"github.com/opd-ai/chordbook/config"
	"github.com/opd-ai/chordbook/songbook"
	"golang.org/x/text/language"
)

// KindChordbook is the document holding the whole catalog.
const KindChordbook catalog.Kind = "chordbook"

// Creator is recorded in the information dictionary of every document.
const Creator = "chordbook"

var ErrUnknownEntity = errors.New("unknown entity")

// Job builds one document.
type Job struct {
	Kind catalog.Kind
	Slug string
	// Path is relative to the output directory.
	Path  string
	build func(a *songbook.Assembler) (*songbook.Document, error)
}

// Exporter builds the documents of a catalog. The catalog, the styles and
// the artwork cache are shared read-only by the workers.
type Exporter struct {
	Settings  config.Settings
	Catalog   *catalog.Catalog
	Assembler *songbook.Assembler
	Writer    *songbook.Writer
	OutputDir string
	Workers   int
	Logger    *slog.Logger
	// Progress, when set, is called after every finished job. Calls are
	// serialized.
	Progress func(Progress)
	// Locale selects the language of printed dates.
	Locale language.Tag
	// RunID names the next run. A random id is used when empty.
	RunID string
	Now   func() time.Time
}

// New returns an exporter over cat. Artwork paths are resolved against
// contentRoot.
func New(settings config.Settings, cat *catalog.Catalog, contentRoot, outputDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	locale := settings.Locale(logger)
	cat.Sort(config.Compare(locale))

	styles := songbook.DefaultStyles()
	asm := songbook.NewAssembler(styles, logger)
	asm.Labels = settings.BookLabels()
	images := songbook.NewArtworkResolver(contentRoot, logger)
	return &Exporter{
		Settings:  settings,
		Catalog:   cat,
		Assembler: asm,
		Writer:    songbook.NewWriter(settings.RenderContext(locale), styles, images),
		OutputDir: outputDir,
		Workers:   runtime.NumCPU(),
		Logger:    logger,
		Locale:    locale,
		Now:       time.Now,
	}
}

func (e *Exporter) cover(title, subtitle, path string) songbook.Cover {
	return songbook.Cover{
		Title:    title,
		Subtitle: subtitle,
		Compiled: e.Settings.DateFormatter(e.Locale)(e.Now()),
		URL:      strings.TrimRight(e.Settings.SiteURL, "/") + "/" + filepath.ToSlash(path),
	}
}

func docPath(kind catalog.Kind, slug string) string {
	if kind == KindChordbook {
		return string(KindChordbook) + ".pdf"
	}
	return filepath.Join(string(kind), slug+".pdf")
}

// Jobs lists the documents of the catalog. Artists and collections without
// songs are left out with one notice each.
func (e *Exporter) Jobs() []Job {
	var jobs []Job
	for _, s := range e.Catalog.Songs {
		jobs = append(jobs, e.songJob(s))
	}
	for _, a := range e.Catalog.Artists {
		if len(a.Songs) == 0 {
			e.Logger.Info("skipping artist without songs", "kind", catalog.KindArtist, "slug", a.Slug)
			continue
		}
		jobs = append(jobs, e.artistJob(a))
	}
	for _, c := range e.Catalog.Collections {
		if len(c.Songs) == 0 {
			e.Logger.Info("skipping collection without songs", "kind", catalog.KindCollection, "slug", c.Slug)
			continue
		}
		jobs = append(jobs, e.collectionJob(c))
	}
	if len(e.Catalog.Songs) > 0 {
		jobs = append(jobs, e.chordbookJob())
	}
	return jobs
}

func (e *Exporter) songJob(s *catalog.Song) Job {
	return Job{
		Kind: catalog.KindSong,
		Slug: s.Slug,
		Path: docPath(catalog.KindSong, s.Slug),
		build: func(a *songbook.Assembler) (*songbook.Document, error) {
			return a.Song(s.Book(), e.Settings.SongMeta(s.Title, Creator))
		},
	}
}

func (e *Exporter) artistJob(ar *catalog.Artist) Job {
	path := docPath(catalog.KindArtist, ar.Slug)
	return Job{
		Kind: catalog.KindArtist,
		Slug: ar.Slug,
		Path: path,
		build: func(a *songbook.Assembler) (*songbook.Document, error) {
			cover := e.cover(e.Settings.Labels.ArtistCover, ar.Name, path)
			return a.Chordbook(cover, ar.Books(), e.Settings.BookMeta(Creator))
		},
	}
}

func (e *Exporter) collectionJob(c *catalog.Collection) Job {
	path := docPath(catalog.KindCollection, c.Slug)
	return Job{
		Kind: catalog.KindCollection,
		Slug: c.Slug,
		Path: path,
		build: func(a *songbook.Assembler) (*songbook.Document, error) {
			cover := e.cover(e.Settings.Labels.CollectionCover, c.Title, path)
			return a.Chordbook(cover, c.Books(), e.Settings.BookMeta(Creator))
		},
	}
}

func (e *Exporter) chordbookJob() Job {
	path := docPath(KindChordbook, "")
	return Job{
		Kind: KindChordbook,
		Path: path,
		build: func(a *songbook.Assembler) (*songbook.Document, error) {
			cover := e.cover(e.Settings.Labels.ChordbookCover, e.Settings.Author, path)
			return a.Catalogue(cover, e.Catalog.Groups(), e.Settings.BookMeta(Creator))
		},
	}
}

// Lookup returns the job of one entity.
func (e *Exporter) Lookup(kind catalog.Kind, slug string) (Job, error) {
	switch kind {
	case catalog.KindSong:
		if s, ok := e.Catalog.Song(slug); ok {
			return e.songJob(s), nil
		}
	case catalog.KindArtist:
		if a, ok := e.Catalog.Artist(slug); ok {
			return e.artistJob(a), nil
		}
	case catalog.KindCollection:
		if c, ok := e.Catalog.Collection(slug); ok {
			return e.collectionJob(c), nil
		}
	case KindChordbook:
		return e.chordbookJob(), nil
	}
	return Job{}, fmt.Errorf("%s %q: %w", kind, slug, ErrUnknownEntity)
}

func (e *Exporter) logger(j Job) *slog.Logger {
	l := e.Logger.With("kind", j.Kind)
	if j.Slug != "" {
		l = l.With("slug", j.Slug)
	}
	return l
}

// Build lays out the document of j.
func (e *Exporter) Build(j Job) (*songbook.Document, error) {
	a := *e.Assembler
	a.Logger = e.logger(j)
	return j.build(&a)
}

// Render builds and renders the document of j to w.
func (e *Exporter) Render(j Job, w io.Writer) (*songbook.Document, error) {
	doc, err := e.Build(j)
	if err != nil {
		return nil, err
	}
	if err := e.Writer.Write(doc, w); err != nil {
		return nil, err
	}
	return doc, nil
}

// Run writes every document with a pool of workers. A failing document is
// recorded in the report and does not stop the others; Run only fails
// when ctx is cancelled.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	jobs := e.Jobs()
	id := e.RunID
	if id == "" {
		id = uuid.NewString()
	}
	report := &Report{ID: id, Started: e.Now(), Results: make([]Result, len(jobs))}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan int)
	var mu sync.Mutex
	done := 0
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				res := e.export(jobs[i])
				mu.Lock()
				report.Results[i] = res
				done++
				if e.Progress != nil {
					e.Progress(Progress{RunID: report.ID, Done: done, Total: len(jobs), Result: res, Error: res.Error()})
				}
				mu.Unlock()
			}
		}()
	}

	var err error
feed:
	for i := range jobs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case queue <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(queue)
	wg.Wait()

	report.Finished = e.Now()
	if err != nil {
		return report, fmt.Errorf("export %s interrupted: %w", report.ID, err)
	}
	e.Logger.Info("export finished", "run", report.ID, "documents", len(jobs),
		"failed", len(report.Failed()), "elapsed", report.Finished.Sub(report.Started))
	return report, nil
}

// export writes one document, turning panics into failures of that
// document.
func (e *Exporter) export(j Job) (res Result) {
	start := time.Now()
	res = Result{Kind: j.Kind, Slug: j.Slug, Path: j.Path}
	log := e.logger(j)
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic: %v", r)
		}
		res.Duration = time.Since(start)
		if res.Err != nil {
			log.Error("export failed", "error", res.Err)
		}
	}()

	var doc *songbook.Document
	size, sum, err := WriteFile(filepath.Join(e.OutputDir, j.Path), func(w io.Writer) error {
		var err error
		doc, err = e.Render(j, w)
		return err
	})
	if err != nil {
		res.Err = err
		return res
	}
	res.Pages = doc.PageCount()
	res.Stale = len(doc.Stale)
	res.Size = size
	res.Checksum = sum
	log.Debug("wrote document", "path", j.Path, "pages", res.Pages, "size", humanize.Bytes(uint64(size)))
	return res
}
