package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

const requestIDHeader = "X-Request-ID"

// Если клиент прислал свой id, используем его
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(log.Writer(), next, func(w io.Writer, p handlers.LogFormatterParams) {
		fmt.Fprintf(w, "%s [INFO] %s %s %d %dB id=%s\n",
			p.TimeStamp.Format("2006/01/02 15:04:05"),
			p.Request.Method,
			p.URL.RequestURI(),
			p.StatusCode,
			p.Size,
			p.Request.Header.Get(requestIDHeader),
		)
	})
}

// jsonHandler отдает результат f как JSON. Ошибку формы запроса превращает в 400 "Not allowed",
// остальное в 500 без подробностей
func jsonHandler(f func(r *http.Request) (any, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := f(r)
		if err != nil {
			if errors.Is(err, model.ErrNotAllowed) {
				http.Error(w, "Not allowed", http.StatusBadRequest)
				return
			}

			log.Printf("[ERROR] %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Printf("[ERROR] encoding response for %s: %v", r.URL.Path, err)
		}
	})
}
