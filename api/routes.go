package api

import (
	"time"

	"github.com/gorilla/mux"

	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/internal/repository/rediscache"
	"github.com/jobdeck/jobdeck/internal/repository/sqlite"
)

// Options carries the optional collaborators: AI parsing, the redis cart
// cache and the background queue. Any of them may be nil.
type Options struct {
	PostingParser PostingParser
	ResumeParser  ResumeParser
	CartCache     *rediscache.CartCountCache
	Queue         Enqueuer
}

func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, opts Options) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn, nil)

	reportingLoc, err := time.LoadLocation(cfg.ReportingTimezone)
	if err != nil {
		reportingLoc = time.UTC
	}

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	taxonomyHandler := NewTaxonomyHandler(repo, repo)
	jobsHandler := NewJobsHandler(repo, repo, opts.PostingParser)
	cartHandler := NewCartHandler(repo, repo, opts.CartCache)
	deliveriesHandler := NewDeliveriesHandler(repo, repo, repo, repo, opts.CartCache, opts.Queue, reportingLoc)
	resumesHandler := NewResumesHandler(repo, repo, repo, opts.ResumeParser, cfg.ResumeDir, cfg.ResumeMaxSizeMB)
	matchHandler := NewMatchHandler(repo, repo, repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")

	// Taxonomy endpoints
	apiV1.HandleFunc("/industries", taxonomyHandler.ListIndustries).Methods("GET")
	apiV1.HandleFunc("/industries", taxonomyHandler.CreateIndustry).Methods("POST")
	apiV1.HandleFunc("/industries/{id}", taxonomyHandler.GetIndustry).Methods("GET")
	apiV1.HandleFunc("/industries/{id}", taxonomyHandler.UpdateIndustry).Methods("PUT")
	apiV1.HandleFunc("/industries/{id}", taxonomyHandler.DeleteIndustry).Methods("DELETE")
	apiV1.HandleFunc("/tags", taxonomyHandler.ListTags).Methods("GET")
	apiV1.HandleFunc("/tags", taxonomyHandler.CreateTag).Methods("POST")
	apiV1.HandleFunc("/tags/{id}", taxonomyHandler.GetTag).Methods("GET")
	apiV1.HandleFunc("/tags/{id}", taxonomyHandler.UpdateTag).Methods("PUT")
	apiV1.HandleFunc("/tags/{id}", taxonomyHandler.DeleteTag).Methods("DELETE")

	// Job endpoints
	apiV1.HandleFunc("/jobs/parse", jobsHandler.ParseJob).Methods("POST")
	apiV1.HandleFunc("/jobs", jobsHandler.CreateJob).Methods("POST")
	apiV1.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.UpdateJob).Methods("PUT")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.DeleteJob).Methods("DELETE")

	// Cart endpoints
	apiV1.HandleFunc("/cart/items", cartHandler.ListItems).Methods("GET")
	apiV1.HandleFunc("/cart/items/{job_id}", cartHandler.AddItem).Methods("POST")
	apiV1.HandleFunc("/cart/items/{job_id}", cartHandler.RemoveItem).Methods("DELETE")
	apiV1.HandleFunc("/cart/count", cartHandler.Count).Methods("GET")
	apiV1.HandleFunc("/cart/clear", cartHandler.Clear).Methods("DELETE")

	// Delivery endpoints
	apiV1.HandleFunc("/delivery/prepare", deliveriesHandler.PrepareBatch).Methods("POST")
	apiV1.HandleFunc("/deliveries", deliveriesHandler.ListDeliveries).Methods("GET")
	apiV1.HandleFunc("/deliveries/trends/daily", deliveriesHandler.DailyTrends).Methods("GET")
	apiV1.HandleFunc("/deliveries/{id}", deliveriesHandler.GetDelivery).Methods("GET")
	apiV1.HandleFunc("/deliveries/{id}", deliveriesHandler.PatchDelivery).Methods("PATCH")
	apiV1.HandleFunc("/analytics/deliveries", deliveriesHandler.Analytics).Methods("GET")

	// Resume endpoints
	apiV1.HandleFunc("/resumes/upload", resumesHandler.Upload).Methods("POST")
	apiV1.HandleFunc("/resumes", resumesHandler.List).Methods("GET")
	apiV1.HandleFunc("/resumes/{id}", resumesHandler.Get).Methods("GET")

	// AI endpoints
	apiV1.HandleFunc("/ai/match", matchHandler.Match).Methods("POST")

	return r
}
