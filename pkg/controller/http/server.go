package http

import (
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/usecase"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
	"github.com/secmon-lab/nem0/pkg/utils/safe"
)

type Server struct {
	router    *chi.Mux
	uc        *usecase.UseCases
	staticDir string
}

type Options func(*Server)

// WithStaticDir serves a built single page application from dir for unmatched GET paths
func WithStaticDir(dir string) Options {
	return func(s *Server) {
		s.staticDir = dir
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware())

	r.Get("/", healthHandler)
	r.Get("/healthz", healthHandler)

	r.Post("/chat", s.chatHandler)

	r.Route("/memories/{userId}", func(r chi.Router) {
		r.Get("/", s.listMemoriesHandler)
		r.Delete("/", s.deleteMemoriesHandler)
	})

	r.Route("/profile", func(r chi.Router) {
		r.Post("/", s.saveProfileHandler)
		r.Get("/onboarding/{userId}", s.onboardingHandler)
	})

	r.Route("/recommendations", func(r chi.Router) {
		r.Post("/", s.recommendHandler)
		r.Post("/track", s.trackActionHandler)
	})

	r.Post("/checkin", s.checkInHandler)

	// Static file serving for SPA (catch-all, must be last)
	if s.staticDir != "" {
		info, err := os.Stat(s.staticDir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open static dir", goerr.V("dir", s.staticDir))
		}
		if !info.IsDir() {
			return nil, goerr.New("static dir is not a directory", goerr.V("dir", s.staticDir))
		}
		r.Get("/*", spaHandler(os.DirFS(s.staticDir)))
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger attaches a logger tagged with the request ID to the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// spaHandler handles SPA routing by serving static files and falling back to index.html
func spaHandler(staticFS fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticFS))

	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := strings.TrimPrefix(r.URL.Path, "/")

		if urlPath == "" {
			urlPath = "index.html"
		}

		file, err := staticFS.Open(urlPath)
		if err != nil {
			// Unknown path, let the client side router resolve it
			if indexFile, err := staticFS.Open("index.html"); err == nil {
				defer safe.Close(r.Context(), indexFile)
				w.Header().Set("Content-Type", "text/html")
				safe.Copy(r.Context(), w, indexFile)
				return
			}

			http.NotFound(w, r)
			return
		}
		safe.Close(r.Context(), file)

		fileServer.ServeHTTP(w, r)
	}
}
