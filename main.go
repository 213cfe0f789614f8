package main

import (
	"context"
	"flag"
	"time"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/leonelquinteros/gotext"

	"chromatica/pkg/game/audio"
	"chromatica/pkg/game/config"
	"chromatica/pkg/game/devtools"
	"chromatica/pkg/game/gameplay"
	"chromatica/pkg/game/renderer"
	ebitenrenderer "chromatica/pkg/game/renderer/ebiten"
	"chromatica/pkg/game/renderer/tui"
	"chromatica/pkg/game/skyline"
)

var (
	outputDir  = flag.String("output_dir", ".", "directory for screenshots and drain map dumps")
	skyName    = flag.String("skyline", "city", "skyline generator: city or plain")
	recordWide = flag.Uint("record_width", 480, "maximum width of timelapse frames")
)

// debugFrameEvery is how often the debug server copies the composite.
const debugFrameEvery = 30

func initGettext(lang string) {
	gotext.Configure("locales", lang, "default")
}

func newRenderer(name string) renderer.Renderer {
	switch name {
	case config.RendererTUI:
		return tui.New()
	default:
		return ebitenrenderer.New()
	}
}

func main() {
	cfg := config.Default()
	cfg.Bind(flag.CommandLine)
	flagutil.Parse()
	defer glog.Flush()

	if err := cfg.Validate(); err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}
	gen := skyline.ByName(*skyName)
	if gen == nil {
		glog.Exitf("Unknown skyline %q", *skyName)
	}
	config.Set(cfg)
	initGettext(cfg.Lang)

	var sounds gameplay.Sounds
	if cfg.Audio {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			glog.Errorf("Audio disabled: %v", err)
		} else {
			defer sm.Cleanup()
			sounds = sm
		}
	}

	s := gameplay.NewSession(cfg, gen, sounds)
	s.OutputDir = *outputDir

	if cfg.RecordPath != "" {
		rec := devtools.NewRecorder(cfg.RecordPath, cfg.RecordEvery, *recordWide)
		s.Observe(rec)
		defer func() {
			if err := rec.Close(); err != nil {
				glog.Errorf("Cannot write timelapse: %v", err)
			}
		}()
	}

	if cfg.DebugAddr != "" {
		dbg := devtools.NewDebugServer(cfg.DebugAddr, debugFrameEvery)
		s.Observe(dbg)
		go func() {
			if err := dbg.ListenAndServe(); err != nil {
				glog.Errorf("%v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := dbg.Shutdown(ctx); err != nil {
				glog.Errorf("Debug server shutdown: %v", err)
			}
		}()
	}

	r := newRenderer(cfg.Renderer)
	glog.Infof("Starting %s renderer", r.Name())
	if err := r.Run(s); err != nil {
		glog.Errorf("Renderer %s: %v", r.Name(), err)
	}
}
