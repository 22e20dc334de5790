package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/config"
	"github.com/otvkatibe/riot-backend/internal/repository"
	"github.com/otvkatibe/riot-backend/internal/riot"
	"github.com/otvkatibe/riot-backend/internal/service"
)

// Server is the REST surface over the query services. Parameter validation
// happens here; everything below works with already-validated input.
type Server struct {
	players     *service.PlayerService
	identity    *service.IdentityService
	stats       *service.StatsService
	leaderboard *service.LeaderboardService
	catalog     *service.CatalogService
	analytics   *service.AnalyticsService
	favorites   *service.FavoriteService
	cache       *service.CacheManager
	store       *repository.CacheStoreRepository
	client      *riot.Client
	cfg         *config.Config
	logger      zerolog.Logger
}

func NewServer(
	players *service.PlayerService,
	identity *service.IdentityService,
	stats *service.StatsService,
	leaderboard *service.LeaderboardService,
	catalog *service.CatalogService,
	analytics *service.AnalyticsService,
	favorites *service.FavoriteService,
	cache *service.CacheManager,
	store *repository.CacheStoreRepository,
	client *riot.Client,
	cfg *config.Config,
	logger zerolog.Logger,
) *Server {
	return &Server{
		players:     players,
		identity:    identity,
		stats:       stats,
		leaderboard: leaderboard,
		catalog:     catalog,
		analytics:   analytics,
		favorites:   favorites,
		cache:       cache,
		store:       store,
		client:      client,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /riot/puuid", s.handlePUUID)
	mux.HandleFunc("GET /riot/profile", s.handleProfile)
	mux.HandleFunc("GET /riot/maestria", s.handleMastery)
	mux.HandleFunc("GET /riot/winrate", s.handleWinrate)
	mux.HandleFunc("GET /riot/champion-stats", s.handleChampionStats)
	mux.HandleFunc("GET /riot/history", s.handleHistory)
	mux.HandleFunc("GET /riot/challenger", s.handleChallenger)
	mux.HandleFunc("GET /riot/champions", s.handleChampions)

	mux.HandleFunc("GET /analytics", s.handleCommunityAnalytics)
	mux.HandleFunc("GET /analytics/cache", s.handleCacheStats)
	mux.HandleFunc("GET /analytics/player", s.handlePlayerInsights)

	mux.HandleFunc("GET /cache/stats", s.handleCacheStats)
	mux.HandleFunc("GET /cache/health", s.handleCacheHealth)
	mux.HandleFunc("DELETE /cache/clear", s.handleCacheClear)

	mux.HandleFunc("GET /favorites", s.handleFavoritesList)
	mux.HandleFunc("POST /favorites", s.handleFavoritesCreate)
	mux.HandleFunc("DELETE /favorites/{id}", s.handleFavoritesDelete)

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// platform returns the regiao query param, falling back to the configured
// default platform.
func (s *Server) platform(r *http.Request) string {
	if regiao := r.URL.Query().Get("regiao"); regiao != "" {
		return regiao
	}
	return s.cfg.DefaultPlatform
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.logger, http.StatusOK, map[string]any{
		"status":    "ok",
		"rateLimit": s.client.RateLimit(),
	})
}
