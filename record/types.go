package record

import (
	"encoding/json"
	"time"
)

// Summary is the lightweight listing entry for one record file.
type Summary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Source     string   `json:"source"`
	GameID     string   `json:"game_id"`
	Players    []string `json:"players"`
	Winner     string   `json:"winner"`
	RoundCount int      `json:"round_count"`
	UpdatedAt  string   `json:"updated_at"`

	updatedUnix int64
}

// ModTime returns the underlying file's modification time, for callers that
// want something richer than the formatted UpdatedAt string.
func (s Summary) ModTime() time.Time { return time.Unix(0, s.updatedUnix) }

// Detail is the full, reshaped body of a single record file.
type Detail struct {
	GameID  string   `json:"game_id"`
	Players []string `json:"players"`
	Winner  string   `json:"winner"`
	Rounds  []Round  `json:"rounds"`
}

type Round struct {
	RoundID        int             `json:"round_id"`
	TargetCard     string          `json:"target_card"`
	StartingPlayer string          `json:"starting_player"`
	RoundResult    json.RawMessage `json:"round_result"`
	History        []PlayEvent     `json:"history"`
}

// PlayEvent is one flattened entry of a round's play history.
type PlayEvent struct {
	Player          string          `json:"player"`
	PlayedCards     []string        `json:"played_cards"`
	Behavior        string          `json:"behavior"`
	PlayReason      string          `json:"play_reason"`
	WasChallenged   bool            `json:"was_challenged"`
	ChallengeReason string          `json:"challenge_reason"`
	ChallengeResult json.RawMessage `json:"challenge_result"`
	NextPlayer      string          `json:"next_player"`
}

// Stats aggregates a set of summaries for the listing response.
type Stats struct {
	TotalRecords    int           `json:"total_records"`
	UniquePlayers   []string      `json:"unique_players"`
	WinnerBreakdown []WinnerCount `json:"winner_breakdown"`
}

type WinnerCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// rawRecord mirrors the on-disk JSON written by the game engine. The format
// is a trusted input contract; no semantic validation happens beyond the
// shape check during listing.
type rawRecord struct {
	GameID      string     `json:"game_id"`
	PlayerNames []string   `json:"player_names"`
	Winner      string     `json:"winner"`
	Rounds      []rawRound `json:"rounds"`
}

type rawRound struct {
	RoundID        int             `json:"round_id"`
	TargetCard     string          `json:"target_card"`
	StartingPlayer string          `json:"starting_player"`
	RoundResult    json.RawMessage `json:"round_result"`
	PlayHistory    []rawPlay       `json:"play_history"`
}

type rawPlay struct {
	PlayerName      string          `json:"player_name"`
	PlayedCards     []string        `json:"played_cards"`
	Behavior        string          `json:"behavior"`
	PlayReason      string          `json:"play_reason"`
	WasChallenged   bool            `json:"was_challenged"`
	ChallengeReason string          `json:"challenge_reason"`
	ChallengeResult json.RawMessage `json:"challenge_result"`
	NextPlayer      string          `json:"next_player"`
}
