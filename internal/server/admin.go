package server

import (
	"encoding/json"
	"net/http"

	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/middleware"
)

func (s *Server) handleCommunityAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.analytics.Community(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, s.logger, http.StatusOK, analytics)
}

func (s *Server) handlePlayerInsights(w http.ResponseWriter, r *http.Request) {
	nome, tag, ok := playerParams(r)
	if !ok {
		writeBadRequest(w, s.logger, "parâmetros nome e tag são obrigatórios")
		return
	}

	insights, err := s.analytics.PlayerInsights(r.Context(), nome, tag)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, s.logger, http.StatusOK, insights)
}

// handleCacheHealth checks that the cache store answers a read and reports
// how much of it has already expired.
func (s *Server) handleCacheHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	status := "ok"
	var ratio float64
	if stats.TotalEntries > 0 {
		ratio = float64(stats.ExpiredEntries) / float64(stats.TotalEntries)
		if ratio > 0.5 {
			status = "degraded"
		}
	}

	writeData(w, s.logger, http.StatusOK, map[string]any{
		"status":        status,
		"totalEntradas": stats.TotalEntries,
		"expiradas":     stats.ExpiredEntries,
		"taxaExpiradas": ratio,
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	status, err := s.analytics.Status(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, s.logger, http.StatusOK, status)
}

// handleCacheClear purges cache entries. tipo and padrao combine: they
// filter both the query cache (query type, identifier LIKE) and the raw
// store (cache type, key LIKE). expirados=true sweeps only expired entries;
// bare, it empties both collections.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	tipo, padrao := q.Get("tipo"), q.Get("padrao")

	var removed int64
	switch {
	case tipo != "" || padrao != "":
		count, err := s.cache.PurgeMatching(ctx, domain.QueryType(tipo), padrao)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		storeCount, err := s.store.DeleteWhere(ctx, tipo, padrao)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		removed = count + storeCount
	case q.Get("expirados") == "true":
		count, err := s.cache.PurgeExpired(ctx)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		storeCount, err := s.store.DeleteExpired(ctx)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		removed = count + storeCount
	default:
		count, err := s.cache.PurgeAll(ctx)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		storeCount, err := s.store.DeleteAll(ctx)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		removed = count + storeCount
	}

	s.logger.Info().Int64("removed", removed).Str("tipo", q.Get("tipo")).Msg("cache purged")
	writeData(w, s.logger, http.StatusOK, map[string]int64{"removidos": removed})
}

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetTenant(r.Context())
	if userID == "" {
		writeBadRequest(w, s.logger, "cabeçalho X-User-ID é obrigatório")
		return
	}

	favorites, err := s.favorites.List(r.Context(), userID, r.URL.Query().Get("tipo"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, s.logger, http.StatusOK, favorites)
}

func (s *Server) handleFavoritesCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetTenant(r.Context())
	if userID == "" {
		writeBadRequest(w, s.logger, "cabeçalho X-User-ID é obrigatório")
		return
	}

	var favorite domain.Favorite
	if err := json.NewDecoder(r.Body).Decode(&favorite); err != nil {
		writeBadRequest(w, s.logger, "corpo da requisição inválido")
		return
	}
	favorite.UserID = userID

	if err := s.favorites.Create(r.Context(), &favorite); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, s.logger, http.StatusCreated, favorite)
}

func (s *Server) handleFavoritesDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetTenant(r.Context())
	if userID == "" {
		writeBadRequest(w, s.logger, "cabeçalho X-User-ID é obrigatório")
		return
	}

	if err := s.favorites.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, s.logger, http.StatusOK, map[string]bool{"removido": true})
}
