package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/repository"
	"github.com/otvkatibe/riot-backend/internal/riot"
	"github.com/otvkatibe/riot-backend/internal/service"
)

// envelope is the uniform response shape.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	FromCache bool            `json:"fromCache"`
	Stale     bool            `json:"stale,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Error     string          `json:"error,omitempty"`
}

func writeResult(w http.ResponseWriter, logger zerolog.Logger, result *service.Result) {
	writeEnvelope(w, logger, http.StatusOK, envelope{
		Success:   true,
		Data:      result.Data,
		FromCache: result.FromCache,
		Stale:     result.Stale,
		Timestamp: result.Timestamp,
	})
}

func writeData(w http.ResponseWriter, logger zerolog.Logger, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal response")
		writeEnvelope(w, logger, http.StatusInternalServerError, envelope{
			Error:     "erro interno",
			Timestamp: time.Now().UTC(),
		})
		return
	}
	writeEnvelope(w, logger, status, envelope{
		Success:   true,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "erro interno"

	switch {
	case errors.Is(err, riot.ErrNotFound):
		status = http.StatusNotFound
		message = "jogador não encontrado"
	case errors.Is(err, service.ErrChampionNotFound):
		status = http.StatusNotFound
		message = "campeão não encontrado"
	case errors.Is(err, service.ErrFavoriteNotFound):
		status = http.StatusNotFound
		message = "favorito não encontrado"
	case errors.Is(err, riot.ErrUnknownPlatform):
		status = http.StatusBadRequest
		message = "região inválida"
	case errors.Is(err, service.ErrInvalidFavorite):
		status = http.StatusBadRequest
		message = "favorito inválido"
	case errors.Is(err, repository.ErrDuplicateFavorite):
		status = http.StatusConflict
		message = "favorito já existe"
	case errors.Is(err, riot.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
		message = "serviço Riot indisponível"
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	writeEnvelope(w, logger, status, envelope{
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}

func writeBadRequest(w http.ResponseWriter, logger zerolog.Logger, message string) {
	writeEnvelope(w, logger, http.StatusBadRequest, envelope{
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}

func writeEnvelope(w http.ResponseWriter, logger zerolog.Logger, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Warn().Err(err).Msg("failed to write response")
	}
}
