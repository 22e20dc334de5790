package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/otvkatibe/riot-backend/internal/constants"
	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/riot"
)

// laneRole is the normalized {lane, role} pair shown per match.
type laneRole struct {
	Lane string
	Role string
}

var teamPositionLanes = map[string]laneRole{
	"TOP":     {Lane: "Top", Role: "Solo"},
	"JUNGLE":  {Lane: "Jungle", Role: "Jungle"},
	"MIDDLE":  {Lane: "Mid", Role: "Solo"},
	"BOTTOM":  {Lane: "Bottom", Role: "Carry"},
	"UTILITY": {Lane: "Bottom", Role: "Support"},
}

// normalizeLaneRole maps a participant's position onto the fixed lane/role
// set. The structured teamPosition field wins when present; legacy
// lane/role strings are title-cased as a fallback. A legacy lane of NONE
// marks a forfeited match and is surfaced as an explicit remake marker.
func normalizeLaneRole(p *riot.Participant) laneRole {
	if lr, ok := teamPositionLanes[p.TeamPosition]; ok {
		return lr
	}
	if p.Lane == "NONE" {
		return laneRole{Lane: "Partida de desistência", Role: ""}
	}
	return laneRole{Lane: capitalize(p.Lane), Role: capitalize(p.Role)}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// formatWinRate renders wins/total as a fixed two-decimal percentage.
// Zero total reads as "0.00%".
func formatWinRate(wins, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(wins)/float64(total)*100)
}

// matchFetcher fetches one raw match record by id.
type matchFetcher func(ctx context.Context, matchID string) (*riot.MatchRecord, error)

// fetchMatches fans the match ids out over a bounded worker pool. Individual
// failures are logged and excluded; the aggregate is built from whatever
// arrived. Results come back sorted by game creation, newest first, so the
// output is stable regardless of completion order.
func fetchMatches(ctx context.Context, matchIDs []string, logger zerolog.Logger, fetch matchFetcher) []riot.MatchRecord {
	results := make([]*riot.MatchRecord, len(matchIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.MatchFetchConcurrency)

	for i, matchID := range matchIDs {
		g.Go(func() error {
			match, err := fetch(gctx, matchID)
			if err != nil {
				logger.Warn().Err(err).Str("match_id", matchID).Msg("match fetch failed, excluding from aggregate")
				return nil
			}
			results[i] = match
			return nil
		})
	}
	// Workers never return an error; failures are excluded above.
	_ = g.Wait()

	matches := make([]riot.MatchRecord, 0, len(matchIDs))
	for _, m := range results {
		if m != nil {
			matches = append(matches, *m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Info.GameCreation > matches[j].Info.GameCreation
	})
	return matches
}

// buildMatchStats computes the aggregate for the subject player over the
// given matches, optionally restricted to one champion (championID 0 means
// all champions). Matches where the subject does not appear are skipped.
// Sums are commutative, so completion order never changes the tallies.
func buildMatchStats(matches []riot.MatchRecord, puuid string, championID int) *domain.AggregatedMatchStats {
	stats := &domain.AggregatedMatchStats{Matches: []domain.MatchSummary{}}

	for _, match := range matches {
		var subject *riot.Participant
		for i := range match.Info.Participants {
			if match.Info.Participants[i].PUUID == puuid {
				subject = &match.Info.Participants[i]
				break
			}
		}
		if subject == nil {
			continue
		}
		if championID > 0 && subject.ChampionID != championID {
			continue
		}

		cs := subject.TotalMinionsKilled + subject.NeutralMinionsKilled
		lr := normalizeLaneRole(subject)

		stats.Total++
		if subject.Win {
			stats.Vitorias++
		}
		stats.TotalKills += subject.Kills
		stats.TotalDeaths += subject.Deaths
		stats.TotalAssists += subject.Assists
		stats.TotalCS += cs
		stats.TotalGameDuration += match.Info.GameDuration

		stats.Matches = append(stats.Matches, domain.MatchSummary{
			MatchID:      match.Metadata.MatchID,
			ChampionID:   subject.ChampionID,
			ChampionName: subject.ChampionName,
			Win:          subject.Win,
			Kills:        subject.Kills,
			Deaths:       subject.Deaths,
			Assists:      subject.Assists,
			TotalCS:      cs,
			GameDuration: match.Info.GameDuration,
			Lane:         lr.Lane,
			Role:         lr.Role,
			Date:         match.Info.GameCreation,
		})
	}
	return stats
}
