package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"dietprogram/internal/app"
	"dietprogram/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyMeal),
		errors.Is(err, domain.ErrInvalidFoodReference),
		errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, app.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, app.ErrInvalidCredentials),
		errors.Is(err, app.ErrSessionNotFound),
		errors.Is(err, app.ErrSessionExpired):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.WithFields(logrus.Fields{
			"request_id": requestIDFromContext(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		writeJSON(w, status, map[string]any{"error": "internal error"})
		return
	}
	writeError(w, status, err)
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func localDayString(t time.Time) string {
	return t.In(time.Local).Format(domain.DayLayout)
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		staticPath := path.Join(dir, reqPath)
		if _, err := os.Stat(staticPath); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}
