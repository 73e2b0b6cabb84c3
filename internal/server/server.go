package server

import (
	"net/http"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/datastore"
)

type Server struct {
	Stores   []*datastore.Store
	Username string
	Password string
}

func New(stores []*datastore.Store, user, pass string) *Server {
	return &Server{
		Stores:   stores,
		Username: user,
		Password: pass,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/universes", s.basicAuth(s.handleUniverses))
	mux.HandleFunc("GET /api/pokemon/{slug}", s.basicAuth(s.handlePokemon))
	mux.HandleFunc("GET /api/pokemon/{slug}/learnset", s.basicAuth(s.handleLearnset))
	mux.HandleFunc("GET /api/pokemon/{slug}/defense", s.basicAuth(s.handleDefense))
	mux.HandleFunc("GET /api/types/chart", s.basicAuth(s.handleTypeChart))
	mux.HandleFunc("POST /api/reload", s.basicAuth(s.handleReload))

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
