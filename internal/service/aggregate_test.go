package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/riot"
)

func testMatch(matchID string, gameCreation int64, subject riot.Participant) riot.MatchRecord {
	return riot.MatchRecord{
		Metadata: riot.MatchMetadata{MatchID: matchID},
		Info: riot.MatchInfo{
			GameCreation: gameCreation,
			GameDuration: 1800,
			Participants: []riot.Participant{
				{PUUID: "someone-else", ChampionID: 99},
				subject,
			},
		},
	}
}

func TestFormatWinRate(t *testing.T) {
	tests := []struct {
		wins, total int
		want        string
	}{
		{7, 10, "70.00%"},
		{0, 0, "0.00%"},
		{1, 3, "33.33%"},
		{10, 10, "100.00%"},
	}
	for _, tt := range tests {
		if got := formatWinRate(tt.wins, tt.total); got != tt.want {
			t.Errorf("formatWinRate(%d, %d) = %q, want %q", tt.wins, tt.total, got, tt.want)
		}
	}
}

func TestNormalizeLaneRole(t *testing.T) {
	tests := []struct {
		name string
		p    riot.Participant
		want laneRole
	}{
		{"top", riot.Participant{TeamPosition: "TOP"}, laneRole{"Top", "Solo"}},
		{"jungle", riot.Participant{TeamPosition: "JUNGLE"}, laneRole{"Jungle", "Jungle"}},
		{"mid", riot.Participant{TeamPosition: "MIDDLE"}, laneRole{"Mid", "Solo"}},
		{"adc", riot.Participant{TeamPosition: "BOTTOM"}, laneRole{"Bottom", "Carry"}},
		{"support", riot.Participant{TeamPosition: "UTILITY"}, laneRole{"Bottom", "Support"}},
		{"remake", riot.Participant{Lane: "NONE"}, laneRole{"Partida de desistência", ""}},
		{"legacy", riot.Participant{Lane: "MIDDLE", Role: "SOLO"}, laneRole{"Middle", "Solo"}},
	}
	for _, tt := range tests {
		if got := normalizeLaneRole(&tt.p); got != tt.want {
			t.Errorf("%s: normalizeLaneRole = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestBuildMatchStatsTotals(t *testing.T) {
	matches := []riot.MatchRecord{
		testMatch("BR1_1", 3, riot.Participant{PUUID: "me", ChampionID: 1, Win: true, Kills: 10, Deaths: 2, Assists: 5, TotalMinionsKilled: 150, NeutralMinionsKilled: 20, TeamPosition: "MIDDLE"}),
		testMatch("BR1_2", 2, riot.Participant{PUUID: "me", ChampionID: 2, Win: false, Kills: 3, Deaths: 7, Assists: 9, TotalMinionsKilled: 120, TeamPosition: "TOP"}),
		testMatch("BR1_3", 1, riot.Participant{PUUID: "me", ChampionID: 1, Win: true, Kills: 5, Deaths: 1, Assists: 2, TotalMinionsKilled: 80, TeamPosition: "JUNGLE"}),
	}

	stats := buildMatchStats(matches, "me", 0)
	if stats.Total != 3 || stats.Vitorias != 2 {
		t.Errorf("unexpected tallies: total=%d wins=%d", stats.Total, stats.Vitorias)
	}
	if stats.TotalKills != 18 || stats.TotalDeaths != 10 || stats.TotalAssists != 16 {
		t.Errorf("unexpected KDA sums: %d/%d/%d", stats.TotalKills, stats.TotalDeaths, stats.TotalAssists)
	}
	if stats.TotalCS != 370 {
		t.Errorf("expected 370 CS (minions + neutral), got %d", stats.TotalCS)
	}
	if stats.TotalGameDuration != 5400 {
		t.Errorf("unexpected duration sum: %d", stats.TotalGameDuration)
	}
	if len(stats.Matches) != 3 || stats.Matches[0].MatchID != "BR1_1" {
		t.Errorf("unexpected match summaries: %+v", stats.Matches)
	}
}

func TestBuildMatchStatsChampionFilter(t *testing.T) {
	matches := []riot.MatchRecord{
		testMatch("BR1_1", 2, riot.Participant{PUUID: "me", ChampionID: 103, Win: true}),
		testMatch("BR1_2", 1, riot.Participant{PUUID: "me", ChampionID: 99, Win: true}),
	}

	stats := buildMatchStats(matches, "me", 103)
	if stats.Total != 1 {
		t.Fatalf("expected 1 match on champion 103, got %d", stats.Total)
	}
	if stats.Matches[0].MatchID != "BR1_1" {
		t.Errorf("wrong match kept: %s", stats.Matches[0].MatchID)
	}
}

func TestBuildMatchStatsSkipsMatchesWithoutSubject(t *testing.T) {
	matches := []riot.MatchRecord{
		testMatch("BR1_1", 1, riot.Participant{PUUID: "me", Win: true}),
		testMatch("BR1_2", 2, riot.Participant{PUUID: "not-me", Win: true}),
	}

	stats := buildMatchStats(matches, "me", 0)
	if stats.Total != 1 {
		t.Errorf("expected 1 counted match, got %d", stats.Total)
	}
}

func TestFetchMatchesToleratesPartialFailure(t *testing.T) {
	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("BR1_%d", i)
	}
	failing := map[string]bool{"BR1_2": true, "BR1_5": true, "BR1_8": true}

	fetch := func(ctx context.Context, matchID string) (*riot.MatchRecord, error) {
		if failing[matchID] {
			return nil, riot.ErrUpstreamUnavailable
		}
		m := testMatch(matchID, int64(len(matchID)), riot.Participant{PUUID: "me", Win: true})
		return &m, nil
	}

	matches := fetchMatches(context.Background(), ids, zerolog.Nop(), fetch)
	if len(matches) != 7 {
		t.Fatalf("expected 7 fetched matches, got %d", len(matches))
	}

	stats := buildMatchStats(matches, "me", 0)
	if stats.Total != 7 {
		t.Errorf("expected totalGames 7 after 3 failed fetches, got %d", stats.Total)
	}
}

func TestFetchMatchesSortsNewestFirst(t *testing.T) {
	ids := []string{"a", "b", "c"}
	creations := map[string]int64{"a": 100, "b": 300, "c": 200}

	fetch := func(ctx context.Context, matchID string) (*riot.MatchRecord, error) {
		m := testMatch(matchID, creations[matchID], riot.Participant{PUUID: "me"})
		return &m, nil
	}

	matches := fetchMatches(context.Background(), ids, zerolog.Nop(), fetch)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	order := []string{matches[0].Metadata.MatchID, matches[1].Metadata.MatchID, matches[2].Metadata.MatchID}
	if order[0] != "b" || order[1] != "c" || order[2] != "a" {
		t.Errorf("expected newest-first order [b c a], got %v", order)
	}
}
