package validation

import (
	"strings"
	"unicode/utf8"

	"rummyscore/models"
)

// Player count and name length limits for a game.
const (
	MinPlayers    = 2
	MaxPlayers    = 6
	MaxNameLength = 50
)

// IsValidPlayerName reports whether name is usable as a player name: between
// 1 and 50 characters after trimming surrounding whitespace. The limit is in
// characters, not bytes, so multibyte names count the same as ASCII ones.
func IsValidPlayerName(name string) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(name))
	return length >= 1 && length <= MaxNameLength
}

// IsValidScore reports whether n is a legal round score (zero or positive).
func IsValidScore(n int) bool {
	return n >= 0
}

// IsValidTargetScore reports whether target is a legal target score. A nil
// target means the game has no end threshold and is always valid.
func IsValidTargetScore(target *int) bool {
	return target == nil || *target > 0
}

// AssertPlayerScore checks the generic score invariants: a player reference
// and a non-negative score. The rummy-implies-zero rule is enforced at
// construction by the engine, not here.
func AssertPlayerScore(s models.PlayerScore) error {
	if s.PlayerID == "" {
		return Errorf("player score must reference a player")
	}
	if !IsValidScore(s.Score) {
		return Errorf("score must be a non-negative integer, got %d", s.Score)
	}
	return nil
}

// AssertPlayer checks a single player's structural invariants.
func AssertPlayer(p models.Player) error {
	if p.ID == "" {
		return Errorf("player id is required")
	}
	if !IsValidPlayerName(p.Name) {
		return Errorf("player name must be 1-%d characters, got %q", MaxNameLength, p.Name)
	}
	if p.TotalScore < 0 {
		return Errorf("player total score cannot be negative, got %d", p.TotalScore)
	}
	return nil
}

// AssertRound checks a single round's structural invariants. It does not
// know which game owns the round, so player-coverage is checked by the
// engine against the owning game, not here.
func AssertRound(r models.Round) error {
	if r.ID == "" {
		return Errorf("round id is required")
	}
	if r.RoundNumber < 1 {
		return Errorf("round number must be 1 or greater, got %d", r.RoundNumber)
	}
	if len(r.Scores) == 0 {
		return Errorf("round must contain at least one score")
	}
	for i, s := range r.Scores {
		if err := AssertPlayerScore(s); err != nil {
			return Errorf("score %d: %v", i, err)
		}
	}
	if r.Timestamp.IsZero() {
		return Errorf("round timestamp is required")
	}
	return nil
}

// AssertGame checks the whole aggregate, failing fast on the first violation.
// The check order is fixed: identity, players, rounds, target score, status,
// winner reference, then dates.
func AssertGame(g models.Game) error {
	if g.ID == "" {
		return Errorf("game id is required")
	}
	if len(g.Players) < MinPlayers || len(g.Players) > MaxPlayers {
		return Errorf("a game needs between %d and %d players, got %d", MinPlayers, MaxPlayers, len(g.Players))
	}
	for i, p := range g.Players {
		if err := AssertPlayer(p); err != nil {
			return Errorf("player %d: %v", i, err)
		}
	}
	if err := assertUniqueNames(playerNames(g.Players)); err != nil {
		return err
	}
	for i, r := range g.Rounds {
		if err := AssertRound(r); err != nil {
			return Errorf("round %d: %v", i, err)
		}
	}
	if !IsValidTargetScore(g.TargetScore) {
		return Errorf("target score must be a positive integer, got %d", *g.TargetScore)
	}
	if g.Status != models.GameStatusActive && g.Status != models.GameStatusCompleted {
		return Errorf("game status must be %q or %q, got %q", models.GameStatusActive, models.GameStatusCompleted, g.Status)
	}
	if g.Winner != "" {
		if g.Status != models.GameStatusCompleted {
			return Errorf("winner can only be set on a completed game")
		}
		if g.PlayerByID(g.Winner) == nil {
			return Errorf("winner %q is not a player in this game", g.Winner)
		}
	}
	if g.CreatedAt.IsZero() {
		return Errorf("game creation time is required")
	}
	if g.CompletedAt != nil {
		if g.CompletedAt.IsZero() {
			return Errorf("game completion time is invalid")
		}
		if g.CompletedAt.Before(g.CreatedAt) {
			return Errorf("game completion time cannot be earlier than creation time")
		}
	}
	return nil
}

// AssertPlayerNameBatch validates a proposed set of player names at game
// setup time, before any Player exists: arity, each name, and
// case-insensitive uniqueness.
func AssertPlayerNameBatch(names []string) error {
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		return Errorf("a game needs between %d and %d players, got %d", MinPlayers, MaxPlayers, len(names))
	}
	for i, name := range names {
		if !IsValidPlayerName(name) {
			return Errorf("player %d: name must be 1-%d characters, got %q", i, MaxNameLength, name)
		}
	}
	return assertUniqueNames(names)
}

func assertUniqueNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok {
			return Errorf("player names must be unique, %q appears more than once", strings.TrimSpace(name))
		}
		seen[key] = struct{}{}
	}
	return nil
}

func playerNames(players []models.Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}
