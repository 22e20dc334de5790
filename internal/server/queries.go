package server

import (
	"net/http"

	"github.com/otvkatibe/riot-backend/internal/middleware"
)

// playerParams pulls the nome/tag pair every player-scoped query requires.
func playerParams(r *http.Request) (nome, tag string, ok bool) {
	q := r.URL.Query()
	nome = q.Get("nome")
	tag = q.Get("tag")
	return nome, tag, nome != "" && tag != ""
}

func (s *Server) handlePUUID(w http.ResponseWriter, r *http.Request) {
	nome, tag, ok := playerParams(r)
	if !ok {
		writeBadRequest(w, s.logger, "parâmetros nome e tag são obrigatórios")
		return
	}

	account, err := s.identity.Account(r.Context(), nome, tag, s.platform(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, s.logger, http.StatusOK, account)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	puuid := r.URL.Query().Get("puuid")
	if puuid == "" {
		writeBadRequest(w, s.logger, "parâmetro puuid é obrigatório")
		return
	}

	result, err := s.players.GetProfile(r.Context(), puuid, s.platform(r), middleware.GetTenant(r.Context()))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, s.logger, result)
}

func (s *Server) handleMastery(w http.ResponseWriter, r *http.Request) {
	nome, tag, ok := playerParams(r)
	if !ok {
		writeBadRequest(w, s.logger, "parâmetros nome e tag são obrigatórios")
		return
	}

	result, err := s.players.GetMastery(r.Context(), nome, tag, s.platform(r), middleware.GetTenant(r.Context()))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, s.logger, result)
}

func (s *Server) handleWinrate(w http.ResponseWriter, r *http.Request) {
	nome, tag, ok := playerParams(r)
	if !ok {
		writeBadRequest(w, s.logger, "parâmetros nome e tag são obrigatórios")
		return
	}

	result, err := s.stats.GetWinrate(r.Context(), nome, tag, s.platform(r), middleware.GetTenant(r.Context()))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, s.logger, result)
}

func (s *Server) handleChampionStats(w http.ResponseWriter, r *http.Request) {
	nome, tag, ok := playerParams(r)
	champion := r.URL.Query().Get("champion")
	if !ok || champion == "" {
		writeBadRequest(w, s.logger, "parâmetros nome, tag e champion são obrigatórios")
		return
	}

	result, err := s.stats.GetChampionStats(r.Context(), nome, tag, champion, s.platform(r), middleware.GetTenant(r.Context()))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, s.logger, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	nome, tag, ok := playerParams(r)
	if !ok {
		writeBadRequest(w, s.logger, "parâmetros nome e tag são obrigatórios")
		return
	}

	result, err := s.stats.GetHistory(r.Context(), nome, tag, s.platform(r), middleware.GetTenant(r.Context()))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, s.logger, result)
}

func (s *Server) handleChallenger(w http.ResponseWriter, r *http.Request) {
	result, err := s.leaderboard.GetChallengerTop(r.Context(), s.platform(r), middleware.GetTenant(r.Context()))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, s.logger, result)
}

func (s *Server) handleChampions(w http.ResponseWriter, r *http.Request) {
	result, err := s.catalog.Snapshot(r.Context(), middleware.GetTenant(r.Context()))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeResult(w, s.logger, result)
}
