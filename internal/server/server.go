package server

import (
	"context"
	"net/http"

	"go-firestore-hampter/internal/eventpublisher"
	"go-firestore-hampter/internal/handler/session"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/sticker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 16

type Users interface {
	GetById(ctx context.Context, username string) (*model.User, error)
	CreateOrUpdate(ctx context.Context, username, profileImageUrl string) error
}

type Interactions interface {
	GetByUsername(ctx context.Context, username string) (*model.UserInteractions, error)
}

type Comments interface {
	session.CommentWriter
	GetById(ctx context.Context, id string) (*model.Comment, error)
	List(ctx context.Context) ([]model.Comment, error)
}

type VideoStats interface {
	session.VideoStatsWriter
	GetOrInit(ctx context.Context) (*model.VideoStats, error)
}

type Config struct {
	Users             Users
	Interactions      Interactions
	Comments          Comments
	VideoStats        VideoStats
	CommentsPublisher eventpublisher.Publisher
	StatsPublisher    eventpublisher.Publisher
	Stickers          sticker.Catalog
	// inbound websocket commands per second and burst, per connection
	CommandRate  float64
	CommandBurst int
}

type Server struct {
	router chi.Router
	cfg    Config
}

func New(cfg Config) *Server {
	if cfg.CommandBurst < 1 {
		cfg.CommandBurst = 1
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logMiddleware)

	s := &Server{router: r, cfg: cfg}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)

	s.router.Route("/api/users/{username}", func(r chi.Router) {
		r.Put("/", s.handlePutUser)
		r.Get("/", s.handleGetUser)
		r.Get("/interactions", s.handleGetInteractions)
	})

	s.router.Route("/api/comments", func(r chi.Router) {
		r.Get("/", s.handleListComments)
		r.Post("/", s.handleAddComment)
		r.Post("/{id}/like", s.handleLikeComment)
	})

	s.router.Get("/api/stats", s.handleGetStats)
	s.router.Post("/api/video/like", s.handleLikeVideo)
	s.router.Post("/api/video/bookmark", s.handleBookmarkVideo)
	s.router.Get("/api/stickers", s.handleListStickers)

	s.router.Get("/ws", s.handleWebSocket)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
