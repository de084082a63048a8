package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

// Тело запроса больше этого не читаем
const maxRequestBody = 1 << 20

type aggregateRequest struct {
	Data json.RawMessage `json:"data"`
}

type articleRequest struct {
	URL string `json:"url"`
}

type searchRequest struct {
	Search string `json:"search"`
	Page   int    `json:"page"`
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v); err != nil {
		return model.ErrNotAllowed
	}
	return nil
}

func (s *Server) aggregate(r *http.Request) (any, error) {
	var req aggregateRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	sources, err := model.ParseSources(req.Data)
	if err != nil {
		return nil, err
	}

	sources = lo.Map(sources, func(src model.FeedSource, _ int) model.FeedSource {
		return s.catalog.Enrich(src)
	})

	// Отключение клиента не отменяет уже начатые загрузки, их ограничивает таймаут на ленту
	entries := s.aggregator.Aggregate(context.WithoutCancel(r.Context()), sources)
	if entries == nil {
		entries = []model.NormalizedEntry{}
	}

	return entries, nil
}

func (s *Server) search(r *http.Request) (any, error) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	return s.catalog.Search(req.Search, req.Page), nil
}

func (s *Server) sources(_ *http.Request) (any, error) {
	return s.catalog.All(), nil
}

// article отдает готовый html документ, а с ?format=markdown его markdown версию
func (s *Server) article(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if r.Method == http.MethodPost {
		var req articleRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Not allowed", http.StatusBadRequest)
			return
		}
		pageURL = req.URL
	}

	if strings.TrimSpace(pageURL) == "" {
		http.Error(w, "Not allowed", http.StatusBadRequest)
		return
	}

	doc, err := s.extractor.Extract(context.WithoutCancel(r.Context()), pageURL)
	if err != nil || doc == nil {
		log.Printf("[ERROR] extracting article %s: %v", pageURL, err)
		http.Error(w, "Error getting article", http.StatusBadGateway)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(doc.Markdown))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(doc.HTML))
}
