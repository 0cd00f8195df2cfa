package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"firestige.xyz/overwatch/internal/config"
	"firestige.xyz/overwatch/internal/filter"
	"firestige.xyz/overwatch/internal/log"
	"firestige.xyz/overwatch/internal/metrics"
	"firestige.xyz/overwatch/internal/pipeline"
	"firestige.xyz/overwatch/internal/render"
	"firestige.xyz/overwatch/internal/snoop"
	"firestige.xyz/overwatch/internal/source"
)

// runOptions describe one pass over a frame source.
type runOptions struct {
	name string
	live bool
	hex  bool
	spec filter.Spec
}

// runSource installs the filter, then feeds every frame of src through the
// pipeline and renders the admitted ones to out. src is closed on return.
func runSource(ctx context.Context, cfg *config.GlobalConfig, src source.Source, out io.Writer, ro runOptions) error {
	defer src.Close()

	p := pipeline.NewBuilder().
		WithGeneve(cfg.Decoder.Geneve, cfg.Decoder.GenevePort).
		Build()

	entries, err := filter.Install(p, ro.spec)
	if err != nil {
		return err
	}
	log.GetLogger().WithFields(map[string]interface{}{
		"source":  ro.name,
		"entries": len(entries),
	}).Debug("filter installed")

	if cfg.Metrics.Enabled {
		stop, err := startMetrics(ctx, cfg.Metrics, p)
		if err != nil {
			return err
		}
		defer stop()
	}

	r := render.New(out,
		render.WithStyle(styleFor(cfg.Output.Color, out)),
		render.WithHex(ro.hex || cfg.Output.Hex),
	)
	return snoop.New(src, p, r, snoop.Options{Name: ro.name, Live: ro.live}).Run(ctx)
}

func startMetrics(ctx context.Context, mc config.MetricsConfig, p *pipeline.Pipeline) (func(), error) {
	collector := metrics.NewPipelineCollector(p)
	if err := prometheus.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
	}

	srv := metrics.NewServer(mc.Listen, mc.Path)
	if err := srv.Start(ctx); err != nil {
		prometheus.Unregister(collector)
		return nil, err
	}
	return func() {
		if err := srv.Stop(context.Background()); err != nil {
			log.GetLogger().WithError(err).Warn("stop metrics server")
		}
		prometheus.Unregister(collector)
	}, nil
}

// styleFor resolves the color setting. auto colors only terminals.
func styleFor(color string, out io.Writer) render.Style {
	switch color {
	case config.ColorAlways:
		return render.Color()
	case config.ColorNever:
		return render.Plain
	}
	if f, ok := out.(*os.File); ok {
		return render.StyleFor(f, false)
	}
	return render.Plain
}
