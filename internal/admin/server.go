package admin

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentinel-sim/internal/sim"
)

//go:embed templates/index.html
var content embed.FS

// Server exposes the read/command API over HTTP for the dashboard layer.
type Server struct {
	Sim *sim.Simulator
	tpl *template.Template
}

// NewServer creates an admin server around a simulator.
func NewServer(simulator *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Sim: simulator, tpl: tpl}
}

// Handler returns the route table as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/topology", s.handleTopology)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/inject-rogue", s.handleInjectRogue)
	mux.HandleFunc("/heal", s.handleHeal)
	mux.HandleFunc("/detect", s.handleDetect)
	mux.HandleFunc("/reset", s.handleReset)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start serves until the context is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		SessionID string
		Health    sim.NetworkHealth
		Nodes     interface{}
		Events    []string
	}{
		SessionID: s.Sim.SessionID(),
		Health:    s.Sim.Health(),
		Nodes:     s.Sim.Snapshot(),
		Events:    s.Sim.Events(),
	}
	_ = s.tpl.Execute(w, data)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Sim.Snapshot())
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Sim.Topology())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Sim.Events())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Sim.Health())
}

func (s *Server) handleInjectRogue(w http.ResponseWriter, r *http.Request) {
	s.Sim.InjectRogue()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHeal(w http.ResponseWriter, r *http.Request) {
	s.Sim.HealAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	s.Sim.DetectThreats()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Sim.Reset()
	w.WriteHeader(http.StatusNoContent)
}
