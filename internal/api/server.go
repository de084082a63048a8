package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

const shutdownTimeout = 5 * time.Second

type Aggregator interface {
	Aggregate(ctx context.Context, sources []model.FeedSource) []model.NormalizedEntry
}

type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*model.ArticleDocument, error)
}

type Catalog interface {
	All() []model.CatalogEntry
	Enrich(src model.FeedSource) model.FeedSource
	Search(query string, page int) model.SearchPage
}

type Server struct {
	router     *mux.Router
	aggregator Aggregator
	extractor  Extractor
	catalog    Catalog
}

// New регистрирует все эндпоинты. Каталог может быть пустым, но не nil
func New(aggregator Aggregator, extractor Extractor, catalog Catalog) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		aggregator: aggregator,
		extractor:  extractor,
		catalog:    catalog,
	}

	registerJSON := func(method, path string, h func(r *http.Request) (any, error)) {
		s.router.Handle(path, jsonHandler(h)).Methods(method)
	}

	registerJSON(http.MethodPost, "/get", s.aggregate)
	registerJSON(http.MethodPost, "/search", s.search)
	registerJSON(http.MethodGet, "/sources", s.sources)

	s.router.HandleFunc("/article", s.article).Methods(http.MethodGet, http.MethodPost)
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return s
}

// Handler собирает роутер и middleware в том порядке, в котором их проходит запрос
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))

	return withRequestID(accessLog(cors(recovery(s.router))))
}

// Run слушает addr, пока не отменят ctx, и затем аккуратно гасит сервер
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
