// Demo renders a small document through the scoping runtime: inherited state
// set on an ancestor flows into expression-bound attributes on descendants,
// and a content transform shows memoized child rendering.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comalice/markupx"
	"github.com/comalice/markupx/internal/production"
	"github.com/comalice/markupx/render"
)

const sampleDoc = `<article>
  <greeting :who="user">ignored</greeting>
  <p>welcome to <em>the demo</em></p>
</article>`

func main() {
	configPath := flag.String("config", "", "path to TOML config")
	inPath := flag.String("in", "", "markup file to render (default: built-in sample)")
	flag.Parse()

	if err := run(*configPath, *inPath); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, inPath string) error {
	cfg := defaultConfig()
	if configPath != "" {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.LogLevel).
		With().Timestamp().Logger()

	var src io.Reader = strings.NewReader(sampleDoc)
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	reg := render.NewRegistry().
		Register("article", render.SetItems(map[string]any{"user": "ada"})).
		Register("greeting", render.ExprAttributes()).
		Register("greeting", greetingFactory()).
		Register("em", render.TransformContent(strings.ToUpper))

	r := render.New(render.Config{
		Registry: reg,
		Logger:   &log,
		MaxDepth: cfg.MaxDepth,
		Trace:    cfg.SnapshotDir != "",
	})

	out, err := r.Render(context.Background(), src)
	if err != nil {
		return err
	}
	fmt.Println(out)

	if cfg.SnapshotDir != "" {
		if err := persistSnapshot(cfg, r.Snapshot(), log); err != nil {
			return err
		}
	}
	return nil
}

func persistSnapshot(cfg demoConfig, snap *render.RenderSnapshot, log zerolog.Logger) error {
	if snap == nil {
		return nil
	}

	ctx := context.Background()
	switch cfg.SnapshotFormat {
	case "yaml":
		p, err := production.NewYAMLPersister(cfg.SnapshotDir)
		if err != nil {
			return err
		}
		if err := p.Save(ctx, *snap); err != nil {
			return err
		}
	default:
		p, err := production.NewJSONPersister(cfg.SnapshotDir)
		if err != nil {
			return err
		}
		if err := p.Save(ctx, *snap); err != nil {
			return err
		}
	}

	log.Info().Str("render_id", snap.RenderID).Str("dir", cfg.SnapshotDir).Msg("snapshot_saved")
	return nil
}

// greetingFactory replaces the element's output with a greeting built from
// the expression-bound "who" attribute.
func greetingFactory() render.ProcessorFactory {
	return func() render.Processor { return greetingProcessor{} }
}

type greetingProcessor struct{}

func (greetingProcessor) Process(ctx context.Context, ec *markupx.ExecutionContext) error {
	who, ok := ec.Attribute("who")
	if !ok || who == nil {
		who = "stranger"
	}
	ec.SetOutput(fmt.Sprintf("<p>hello, %v!</p>", who))
	return nil
}
