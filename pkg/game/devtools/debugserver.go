package devtools

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"chromatica/pkg/game/config"
)

// progressReport is the /progress response body.
type progressReport struct {
	Level    int     `json:"level"`
	Seed     int64   `json:"seed"`
	Frame    int     `json:"frame"`
	Drained  int     `json:"drained"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
	Target   float64 `json:"target"`
	Complete bool    `json:"complete"`
	GameOver bool    `json:"game_over"`
	Lives    int     `json:"lives"`
	PlayerX  float64 `json:"player_x"`
	PlayerY  float64 `json:"player_y"`
}

// DebugServer serves the live drain progress and the latest composite over
// HTTP. The game loop hands it snapshots; handlers only read copies.
type DebugServer struct {
	// Copy the frame every Every snapshots.
	Every int

	mu     sync.RWMutex
	report progressReport
	frame  []byte
	seen   bool

	srv *http.Server
}

// NewDebugServer returns a server for addr. Call ListenAndServe to start it.
func NewDebugServer(addr string, every int) *DebugServer {
	if every < 1 {
		every = 1
	}
	d := &DebugServer{Every: every}
	d.srv = &http.Server{
		Addr:              addr,
		Handler:           d.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return d
}

// ObserveFrame records the snapshot's progress, and every Every frames a
// PNG of the composite.
func (d *DebugServer) ObserveFrame(snap Snapshot) {
	report := progressReport{
		Level:    snap.Level,
		Seed:     snap.Seed,
		Frame:    snap.Number,
		Drained:  snap.Progress.Drained,
		Total:    snap.Progress.Total,
		Percent:  snap.Progress.Percentage() * 100,
		Target:   snap.Target,
		Complete: snap.Complete,
		GameOver: snap.GameOver,
		Lives:    snap.Lives,
		PlayerX:  snap.PlayerX,
		PlayerY:  snap.PlayerY,
	}

	var frame []byte
	if snap.Frame != nil && snap.Number%d.Every == 0 {
		buf, err := encodePNG(snap.Frame)
		if err != nil {
			glog.Errorf("Debug server: %v", err)
		} else {
			frame = buf
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.report = report
	d.seen = true
	if frame != nil {
		d.frame = frame
	}
}

// Handler returns the server's routes.
func (d *DebugServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/progress", d.progressHandler).Methods(http.MethodGet)
	r.HandleFunc("/frame.png", d.frameHandler).Methods(http.MethodGet)
	r.HandleFunc("/config", configHandler).Methods(http.MethodGet)
	return handlers.CompressHandler(r)
}

func (d *DebugServer) progressHandler(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	report, seen := d.report, d.seen
	d.mu.RUnlock()

	if !seen {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		glog.Errorf("Debug server: encode progress: %v", err)
	}
}

// configHandler serves the process-wide configuration.
func configHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(config.Current()); err != nil {
		glog.Errorf("Debug server: encode config: %v", err)
	}
}

func (d *DebugServer) frameHandler(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	frame := d.frame
	d.mu.RUnlock()

	if frame == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(frame)
}

// ListenAndServe serves until Shutdown. Requests are logged to stderr.
func (d *DebugServer) ListenAndServe() error {
	d.srv.Handler = handlers.LoggingHandler(os.Stderr, d.srv.Handler)
	glog.Infof("Debug server listening on %s", d.srv.Addr)
	if err := d.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "debug server")
	}
	return nil
}

// Shutdown stops the server.
func (d *DebugServer) Shutdown(ctx context.Context) error {
	return d.srv.Shutdown(ctx)
}
