package main

import (
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/fogtable/fogtable/internal/fog"
	"github.com/fogtable/fogtable/internal/store"
	"github.com/fogtable/fogtable/internal/store/sqlite"
	"github.com/fogtable/fogtable/internal/web"
	"github.com/fogtable/fogtable/internal/ws"
)

type server struct {
	cfg      config
	maps     store.MapStore
	sounds   store.SoundStore
	views    *store.ViewStore
	hub      *ws.Hub
	throttle *cameraThrottle

	// ledger collapses duplicate live fog deliveries for the active map.
	mu     sync.Mutex
	ledger *fog.Ledger
}

func newServer(cfg config, maps store.MapStore, sounds store.SoundStore) *server {
	s := &server{
		cfg:    cfg,
		maps:   maps,
		sounds: sounds,
		views:  store.NewViewStore(),
		hub:    ws.NewHub(),
		ledger: fog.NewLedger(),
	}
	s.throttle = newCameraThrottle(time.Duration(cfg.CameraThrottleMS)*time.Millisecond, s.broadcastCamera)
	return s
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/maps", s.handleCreateMap)
	mux.HandleFunc("GET /api/maps", s.handleListMaps)
	mux.HandleFunc("GET /api/maps/active", s.handleActiveMap)
	mux.HandleFunc("GET /api/maps/{id}", s.handleGetMap)
	mux.HandleFunc("PATCH /api/maps/{id}", s.handleRenameMap)
	mux.HandleFunc("DELETE /api/maps/{id}", s.handleDeleteMap)
	mux.HandleFunc("PUT /api/maps/{id}/fow", s.handlePutFow)
	mux.HandleFunc("GET /api/maps/{id}/fow.png", s.handleFowImage)
	mux.HandleFunc("PUT /api/maps/{id}/activate", s.handleActivateMap)

	mux.HandleFunc("POST /api/sounds", s.handleCreateSound)
	mux.HandleFunc("GET /api/sounds", s.handleListSounds)
	mux.HandleFunc("PATCH /api/sounds/{id}", s.handleUpdateSound)
	mux.HandleFunc("DELETE /api/sounds/{id}", s.handleDeleteSound)

	mux.HandleFunc("/stream", s.handleStream)

	mux.Handle("GET /static/", http.FileServerFS(web.StaticFS))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.UploadDir))))

	mux.Handle("GET /{$}", page(web.HomePage()))
	mux.Handle("GET /gm", page(web.GMPage()))
	mux.Handle("GET /player", page(web.PlayerPage()))

	return mux
}

func page(c templ.Component) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.Render(r.Context(), w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("create upload dir: %v", err)
	}
	st, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	s := newServer(cfg, st, st)
	log.Printf("listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, s.routes()))
}
