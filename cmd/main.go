// Command chordbook exports a chord repository to PDF songbooks and serves
// them for preview.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/opd-ai/chordbook/catalog"
	"github.com/opd-ai/chordbook/config"
	"github.com/opd-ai/chordbook/export"
	"github.com/opd-ai/chordbook/logging"
	"github.com/opd-ai/chordbook/srv"
)

var version = "dev"

// Globals are shared by every command.
type Globals struct {
	Settings  string `name:"settings" short:"s" env:"CHORDBOOK_SETTINGS" help:"Settings file" type:"path" default:"settings.yml"`
	Content   string `name:"content" short:"c" env:"CHORDBOOK_CONTENT" help:"Content repository root" type:"path" default:"."`
	Output    string `name:"output" short:"o" env:"CHORDBOOK_OUTPUT" help:"Output directory" type:"path" default:"pdf"`
	LogLevel  string `name:"log-level" env:"CHORDBOOK_LOG_LEVEL" help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `name:"log-format" env:"CHORDBOOK_LOG_FORMAT" help:"Log format (text, json)" default:"text"`
}

var CLI struct {
	Globals

	Export  ExportCmd  `cmd:"" help:"Export every song, artist, collection and the chordbook"`
	Song    SongCmd    `cmd:"" help:"Export a single document"`
	Serve   ServeCmd   `cmd:"" help:"Serve documents and exports over HTTP"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// exporter loads the settings and the catalog.
func (g *Globals) exporter() (*export.Exporter, *slog.Logger, error) {
	logger, err := logging.Setup(g.LogLevel, g.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	settings, err := config.Load(g.Settings)
	if err != nil {
		return nil, nil, err
	}
	repo := catalog.NewRepository(g.Content, logger)
	repo.Layout = settings.Content
	cat, problems, err := repo.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load content: %w", err)
	}
	for _, p := range problems {
		logger.Warn("content problem", "error", p)
	}
	return export.New(settings, cat, g.Content, g.Output, logger), logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// ExportCmd writes every document.
type ExportCmd struct {
	Workers int `name:"workers" short:"w" env:"CHORDBOOK_WORKERS" help:"Documents built in parallel (0 for one per CPU)" default:"0"`
}

func (c *ExportCmd) Run(g *Globals) error {
	e, _, err := g.exporter()
	if err != nil {
		return err
	}
	if c.Workers > 0 {
		e.Workers = c.Workers
	}
	ctx, cancel := signalContext()
	defer cancel()

	report, err := e.Run(ctx)
	if report != nil {
		report.Summary(os.Stdout)
	}
	if err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d documents failed", len(failed), len(report.Results))
	}
	return nil
}

// SongCmd writes the document of one entity.
type SongCmd struct {
	Slug string `arg:"" optional:"" help:"Slug of the song, artist or collection; not used with --kind chordbook"`
	Kind string `name:"kind" short:"k" help:"Kind of entity" enum:"songs,artists,collections,chordbook" default:"songs"`
	File string `name:"file" short:"f" help:"Output file, defaults to its place under the output directory" type:"path"`
}

// Validate is called by kong after parsing.
func (c *SongCmd) Validate() error {
	if c.Slug == "" && catalog.Kind(c.Kind) != export.KindChordbook {
		return fmt.Errorf("a slug is required for --kind %s", c.Kind)
	}
	return nil
}

func (c *SongCmd) Run(g *Globals) error {
	e, logger, err := g.exporter()
	if err != nil {
		return err
	}
	job, err := e.Lookup(catalog.Kind(c.Kind), c.Slug)
	if err != nil {
		return err
	}
	path := c.File
	if path == "" {
		path = filepath.Join(g.Output, job.Path)
	}
	var pages int
	size, sum, err := export.WriteFile(path, func(w io.Writer) error {
		doc, err := e.Render(job, w)
		if err != nil {
			return err
		}
		pages = doc.PageCount()
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("wrote document", "path", path, "pages", pages, "size", size, "checksum", sum)
	return nil
}

// ServeCmd runs the preview server.
type ServeCmd struct {
	Addr      string `name:"addr" short:"a" env:"CHORDBOOK_ADDR" help:"Listen address" default:":8080"`
	Cert      string `name:"cert" env:"CHORDBOOK_CERT" help:"TLS certificate file, generated when missing" type:"path"`
	Key       string `name:"key" env:"CHORDBOOK_KEY" help:"TLS key file, generated when missing" type:"path"`
	RateLimit int    `name:"rate-limit" env:"CHORDBOOK_RATE_LIMIT" help:"Requests per minute and address" default:"60"`
}

func (c *ServeCmd) Run(g *Globals) error {
	if (c.Cert == "") != (c.Key == "") {
		return fmt.Errorf("--cert and --key must be given together")
	}
	e, logger, err := g.exporter()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	s := srv.New(e, logger, srv.Options{RateLimit: c.RateLimit})
	return s.ListenAndServe(ctx, c.Addr, c.Cert, c.Key)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("chordbook version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("chordbook"),
		kong.Description("Chord repository PDF exporter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
