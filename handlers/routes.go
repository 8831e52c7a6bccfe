package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ahmadluay9/movie-recommendation-chatbot/api"
	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/metrics"
)

// Routes bundles the handlers mounted by Register. Nil handlers leave their
// routes out.
type Routes struct {
	Catalog   *CatalogHandler
	Recommend *RecommendHandler
	Posters   *PosterHandler
	Sessions  *SessionsHandler
	Version   *VersionHandler

	// RecommendLimiter throttles POST /recommend per client IP.
	RecommendLimiter *api.IPRateLimiter
}

// Register mounts every API route on r.
func Register(r *mux.Router, routes Routes) {
	r.Use(api.RecoverMiddleware(), api.AccessLogMiddleware(), api.SessionMiddleware)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if routes.Version != nil {
		r.HandleFunc("/version", routes.Version.GetVersion).Methods(http.MethodGet)
	}
	if routes.Catalog != nil {
		r.HandleFunc("/", routes.Catalog.Root).Methods(http.MethodGet)
		r.HandleFunc("/fetch/{kind}", routes.Catalog.Fetch).Methods(http.MethodGet)
	}
	if routes.Recommend != nil {
		h := routes.Recommend.Recommend
		if routes.RecommendLimiter != nil {
			h = api.RateLimitHandlerFunc(routes.RecommendLimiter, h)
		}
		r.HandleFunc("/recommend", h).Methods(http.MethodPost)
		r.HandleFunc("/recommend/", h).Methods(http.MethodPost)
	}
	if routes.Posters != nil {
		r.HandleFunc("/poster/{size}/{file}", routes.Posters.Poster).Methods(http.MethodGet)
	}
	if routes.Sessions != nil {
		r.HandleFunc("/sessions/{id}/messages", routes.Sessions.Messages).Methods(http.MethodGet)
		r.HandleFunc("/sessions/{id}", routes.Sessions.Delete).Methods(http.MethodDelete)
	}
}
