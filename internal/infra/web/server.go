package web

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"assistant-hub/internal/usecase"
)

type Server struct {
	companyUC      usecase.CompanyUseCase
	assistantUC    usecase.AssistantUseCase
	documentUC     usecase.DocumentUseCase
	vectorStoreUC  usecase.VectorStoreUseCase
	conversationUC usecase.ConversationUseCase
	auth           *AuthManager
	apiKey         string
	log            *zerolog.Logger
}

func NewServer(
	companyUC usecase.CompanyUseCase,
	assistantUC usecase.AssistantUseCase,
	documentUC usecase.DocumentUseCase,
	vectorStoreUC usecase.VectorStoreUseCase,
	conversationUC usecase.ConversationUseCase,
	auth *AuthManager,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		companyUC:      companyUC,
		assistantUC:    assistantUC,
		documentUC:     documentUC,
		vectorStoreUC:  vectorStoreUC,
		conversationUC: conversationUC,
		auth:           auth,
		apiKey:         apiKey,
		log:            logger,
	}
}

// Router builds the full route tree. Everything under /api/v1 except the
// login endpoint requires a valid session token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.loginHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/companies", func(r chi.Router) {
				r.Post("/", s.companyCreateHandler)
				r.Get("/", s.companyListHandler)
				r.Get("/{id}", s.companyGetHandler)
				r.Delete("/{id}", s.companyDeleteHandler)
			})

			r.Route("/assistants", func(r chi.Router) {
				r.Post("/", s.assistantCreateHandler)
				r.Get("/", s.assistantListHandler)
				r.Get("/{id}", s.assistantGetHandler)
				r.Delete("/{id}", s.assistantDeleteHandler)
				r.Put("/{id}/vector-store", s.assistantAttachVectorStoreHandler)
				r.Get("/models", s.modelsHandler)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", s.documentUploadHandler)
				r.Get("/", s.documentListHandler)
			})

			r.Route("/vector-stores", func(r chi.Router) {
				r.Post("/", s.vectorStoreCreateHandler)
				r.Get("/", s.vectorStoreListHandler)
				r.Post("/{id}/documents", s.vectorStoreAddDocumentHandler)
			})

			r.Route("/threads", func(r chi.Router) {
				r.Post("/", s.threadCreateHandler)
				r.Get("/{id}", s.threadGetHandler)
				r.Post("/{id}/close", s.threadCloseHandler)
				r.Post("/{id}/messages", s.askHandler)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Post("/", s.jobEnqueueHandler)
				r.Get("/", s.jobListHandler)
				r.Get("/{id}", s.jobGetHandler)
			})
		})
	})

	return r
}

// authMiddleware validates the session JWT minted at login.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration_ms", time.Since(start)).
			Msg("http request")
	})
}

// loginHandler exchanges the configured API key for a session token.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" {
		s.log.Error().Msg("API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	key := r.Header.Get("X-Api-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
