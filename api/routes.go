package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yeppakhon/WWDC-search/handlers"
)

// corsMiddleware handles CORS for API routes.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	searchHandler *handlers.SearchHandler,
	historyHandler *handlers.HistoryHandler,
	previewHandler *handlers.PreviewHandler,
	translateHandler *handlers.TranslateHandler,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	api.HandleFunc("/search", searchHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/search", searchHandler.Options).Methods(http.MethodOptions)
	api.HandleFunc("/stats", searchHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/years", searchHandler.Years).Methods(http.MethodGet)

	api.HandleFunc("/history", historyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/history", historyHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/history", historyHandler.Options).Methods(http.MethodOptions)

	api.HandleFunc("/preview", previewHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/preview", previewHandler.Stop).Methods(http.MethodDelete)
	api.HandleFunc("/preview", previewHandler.Options).Methods(http.MethodOptions)
	api.HandleFunc("/preview/overlay", previewHandler.OverlayState).Methods(http.MethodGet)
	api.HandleFunc("/preview/player-ready", previewHandler.PlayerReady).Methods(http.MethodPost)

	api.HandleFunc("/translate", translateHandler.Translate).Methods(http.MethodPost)
	api.HandleFunc("/translate", translateHandler.Options).Methods(http.MethodOptions)
	api.HandleFunc("/translate/cancel", translateHandler.Cancel).Methods(http.MethodPost)
}
