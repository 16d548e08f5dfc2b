package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source lists the directories holding records of one kind, relative to the
// content root, and the paths to skip below them.
type Source struct {
	Paths    []string `yaml:"paths"`
	Excludes []string `yaml:"excludes"`
}

// Layout tells where each kind of record lives.
type Layout struct {
	Artists     Source `yaml:"artists"`
	Songs       Source `yaml:"songs"`
	Collections Source `yaml:"collections"`
}

// DefaultLayout reads chords/artists, chords/songs and chords/collections.
func DefaultLayout() Layout {
	return Layout{
		Artists:     Source{Paths: []string{filepath.Join("chords", "artists")}},
		Songs:       Source{Paths: []string{filepath.Join("chords", "songs")}},
		Collections: Source{Paths: []string{filepath.Join("chords", "collections")}},
	}
}

// Repository loads YAML records below Root.
type Repository struct {
	Root   string
	Layout Layout
	Logger *slog.Logger
}

// NewRepository returns a repository with the default layout.
func NewRepository(root string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{Root: root, Layout: DefaultLayout(), Logger: logger}
}

// Load reads every record and links them. Records that fail validation and
// references that do not resolve are returned as problems and left out;
// only errors walking the content directories are fatal.
func (r *Repository) Load() (*Catalog, []error, error) {
	var problems []error

	var artists []*Artist
	err := r.each(r.Layout.Artists, func(path string, data []byte) error {
		a := &Artist{}
		if err := decode(KindArtist, path, data, a); err != nil {
			return err
		}
		a.Source = path
		if a.Slug == "" {
			a.Slug = basename(path)
		}
		artists = append(artists, a)
		return nil
	}, &problems)
	if err != nil {
		return nil, nil, err
	}

	var songs []*Song
	err = r.each(r.Layout.Songs, func(path string, data []byte) error {
		s := &Song{}
		if err := decode(KindSong, path, data, s); err != nil {
			return err
		}
		s.Source = path
		if s.Slug == "" {
			s.Slug = basename(path)
		}
		songs = append(songs, s)
		return nil
	}, &problems)
	if err != nil {
		return nil, nil, err
	}

	var collections []*Collection
	err = r.each(r.Layout.Collections, func(path string, data []byte) error {
		c := &Collection{}
		if err := decode(KindCollection, path, data, c); err != nil {
			return err
		}
		c.Source = path
		if c.Slug == "" {
			c.Slug = basename(path)
		}
		collections = append(collections, c)
		return nil
	}, &problems)
	if err != nil {
		return nil, nil, err
	}

	cat, unresolved := Link(artists, songs, collections, r.Logger)
	problems = append(problems, unresolved...)
	r.Logger.Info("catalog loaded",
		"artists", len(cat.Artists), "songs", len(cat.Songs),
		"collections", len(cat.Collections), "problems", len(problems))
	return cat, problems, nil
}

// each calls fn for every YAML file of src in lexical order. Validation
// failures are logged and collected.
func (r *Repository) each(src Source, fn func(path string, data []byte) error, problems *[]error) error {
	files, err := r.files(src)
	if err != nil {
		return err
	}
	for _, path := range files {
		data, err := os.ReadFile(filepath.Join(r.Root, path))
		if err != nil {
			return fmt.Errorf("error reading %s: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			r.Logger.Error("skipping record", "path", path, "error", err)
			*problems = append(*problems, err)
		}
	}
	return nil
}

func (r *Repository) files(src Source) ([]string, error) {
	var res []string
	for _, dir := range src.Paths {
		root := filepath.Join(r.Root, dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == root {
					r.Logger.Debug("content directory not found", "path", dir)
					return filepath.SkipDir
				}
				return err
			}
			rel, err := filepath.Rel(r.Root, path)
			if err != nil {
				return err
			}
			if excluded(rel, src.Excludes) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yml", ".yaml":
				res = append(res, rel)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error listing %s: %w", dir, err)
		}
	}
	sort.Strings(res)
	return res, nil
}

// excluded matches rel against exclude entries, which are either paths
// relative to the content root or glob patterns on the base name.
func excluded(rel string, excludes []string) bool {
	for _, ex := range excludes {
		ex = filepath.Clean(ex)
		if rel == ex || strings.HasPrefix(rel, ex+string(filepath.Separator)) {
			return true
		}
		if ok, _ := filepath.Match(ex, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

func basename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// decode unmarshals data into v after checking the mandatory attributes of
// kind.
func decode(kind Kind, path string, data []byte, v any) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Path: path, Kind: kind, Err: err}
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return &ValidationError{Path: path, Kind: kind, Err: errors.New("record is not a mapping")}
	}
	m := doc.Content[0]
	present := make(map[string]bool, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		present[m.Content[i].Value] = true
	}
	var missing []string
	for _, key := range mandatory[kind] {
		if !present[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Path: path, Kind: kind, Missing: missing}
	}
	if err := m.Decode(v); err != nil {
		return &ValidationError{Path: path, Kind: kind, Err: err}
	}
	return nil
}
