package gameplay

import (
	"github.com/golang/glog"

	"chromatica/pkg/engine/input"
	"chromatica/pkg/game/devtools"
)

// ProcessIntents handles the meta actions pressed this frame. Movement is
// read separately by stepPlayer.
func (s *Session) ProcessIntents(c *input.Controls) {
	g := s.Game

	if c.Pressed(input.ActionQuit) {
		glog.Infof("Quit requested")
		g.QuitRequested = true
		return
	}

	if c.Pressed(input.ActionToggleStats) {
		g.ShowStats = !g.ShowStats
	}

	if c.Pressed(input.ActionResetDrain) {
		s.ResetDrain()
	}

	if c.Pressed(input.ActionScreenshot) {
		s.Screenshot()
	}

	if c.Pressed(input.ActionRestart) && (g.IsComplete() || g.IsGameOver()) {
		if err := s.Restart(); err != nil {
			glog.Errorf("Restart failed: %v", err)
			s.logMessage("RESTART_FAILED")
		}
	}
}

// Screenshot writes the last frame as HTML plus a drain map dump into
// OutputDir.
func (s *Session) Screenshot() {
	snap := s.snapshot()
	filename, err := devtools.SaveScreenshotHTML(s.OutputDir, snap)
	if err != nil {
		glog.Errorf("Screenshot failed: %v", err)
		s.logMessage("SCREENSHOT_FAILED")
		return
	}
	glog.Infof("Screenshot saved to %s", filename)
	s.logMessage("SCREENSHOT_SAVED", filename)

	path, err := devtools.DumpDrainMapToFile(s.OutputDir, snap, s.Scene.Map())
	if err != nil {
		glog.Errorf("Drain map dump failed: %v", err)
		return
	}
	glog.Infof("Drain map dumped to %s", path)
}
