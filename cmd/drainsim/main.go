// Command drainsim drains many cities headlessly and reports how long each
// took to reach the target, for tuning radius, quality and stride.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"chromatica/pkg/game/config"
	"chromatica/pkg/game/devtools"
	"chromatica/pkg/game/skyline"
)

var (
	seeds     = flag.Int("seeds", 8, "number of cities to simulate")
	firstSeed = flag.Int64("first_seed", 1, "seed of the first city")
	mode      = flag.String("mode", modeSweep, "sweep: the brush rakes the city; walk: an autopilot plays")
	maxFrames = flag.Int("max_frames", 20000, "give up on a city after this many frames")
	parallel  = flag.Int("parallel", runtime.GOMAXPROCS(0), "cities simulated at once")
	skyName   = flag.String("skyline", "city", "skyline generator: city or plain")
	printLast = flag.Bool("print", false, "print the last city's final frame inline (kitty, iTerm or sixel)")
)

func main() {
	cfg := config.Default()
	cfg.Bind(flag.CommandLine)
	flagutil.Parse()
	flag.Set("logtostderr", "true")
	defer glog.Flush()

	if err := cfg.Validate(); err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}
	if *mode != modeSweep && *mode != modeWalk {
		glog.Exitf("Unknown mode %q", *mode)
	}
	gen := skyline.ByName(*skyName)
	if gen == nil {
		glog.Exitf("Unknown skyline %q", *skyName)
	}

	sim := simulation{
		cfg:       cfg,
		gen:       gen,
		mode:      *mode,
		maxFrames: *maxFrames,
		parallel:  *parallel,
	}
	glog.Infof("Simulating %d cities from seed %d (%s, %dx%d, radius %.0f, quality %d)",
		*seeds, *firstSeed, *mode, cfg.Width, cfg.Height, cfg.Radius, cfg.Quality)

	results, err := sim.run(context.Background(), *firstSeed, *seeds)
	if err != nil {
		glog.Exitf("Simulation failed: %v", err)
	}
	report(os.Stdout, *mode, cfg.TargetPercent, results)

	if *printLast && len(results) > 0 && results[len(results)-1].Frame != nil {
		if err := devtools.PrintImage(os.Stdout, results[len(results)-1].Frame, 640, 360); err != nil {
			glog.Warningf("Cannot print frame: %v", err)
		}
	}
}
