package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when a validated path no longer resolves to a
// readable record, e.g. the file vanished between the sandbox check and the
// read.
var ErrNotFound = errors.New("record: not found")

// Store enumerates record files under the permitted roots and loads the full
// detail of individual files. It owns no mutable state; every call hits the
// filesystem directly so listings always reflect the current directory
// contents.
type Store struct {
	baseDir string
	roots   []string
	sandbox *Sandbox
}

// NewStore creates a store over the given record directories. baseDir is the
// common ancestor that identifiers are encoded relative to; roots are the
// directories scanned for records, typically children of baseDir.
func NewStore(baseDir string, roots []string) (*Store, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("record: base directory is required")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("record: resolve base directory: %w", err)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("record: at least one record directory is required")
	}
	absRoots := make([]string, 0, len(roots))
	for _, r := range roots {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !filepath.IsAbs(r) {
			r = filepath.Join(abs, r)
		}
		absRoots = append(absRoots, filepath.Clean(r))
	}
	if len(absRoots) == 0 {
		return nil, fmt.Errorf("record: at least one record directory is required")
	}
	return &Store{
		baseDir: abs,
		roots:   absRoots,
		sandbox: NewSandbox(absRoots...),
	}, nil
}

// Sandbox exposes the guard for the store's roots so the API layer can
// re-validate client-supplied paths before asking for detail.
func (s *Store) Sandbox() *Sandbox { return s.sandbox }

// BaseDir is the directory identifiers are relative to.
func (s *Store) BaseDir() string { return s.baseDir }

// Resolve turns a decoded relative path back into an absolute candidate path.
// The result is only a candidate; it still has to pass the sandbox.
func (s *Store) Resolve(relativePath string) string {
	return filepath.Join(s.baseDir, relativePath)
}

// List scans every record directory for *.json files and returns one summary
// per file that matches the record shape, most recently modified first.
// Unparseable or foreign files are skipped silently; a missing root is not an
// error.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	var out []Summary
	for _, root := range s.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			path := filepath.Join(root, name)
			summary, ok := s.summarize(path)
			if !ok {
				continue
			}
			out = append(out, summary)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].updatedUnix > out[j].updatedUnix
	})
	return out, nil
}

func (s *Store) summarize(path string) (Summary, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, false
	}
	if !validRecordShape(raw) {
		return Summary{}, false
	}
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Summary{}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}, false
	}
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil {
		return Summary{}, false
	}
	source, err := filepath.Rel(s.baseDir, filepath.Dir(path))
	if err != nil {
		source = filepath.Dir(rel)
	}
	players := rec.PlayerNames
	if players == nil {
		players = []string{}
	}
	mod := info.ModTime()
	return Summary{
		ID:          EncodePath(filepath.ToSlash(rel)),
		Name:        filepath.Base(path),
		Source:      filepath.ToSlash(source),
		GameID:      rec.GameID,
		Players:     players,
		Winner:      rec.Winner,
		RoundCount:  len(rec.Rounds),
		UpdatedAt:   mod.Format("2006-01-02T15:04:05"),
		updatedUnix: mod.UnixNano(),
	}, true
}

// LoadDetail reads and reshapes one record file. The caller must already have
// validated the path against the sandbox; this method only covers the file
// disappearing between check and read.
func (s *Store) LoadDetail(ctx context.Context, validatedPath string) (Detail, error) {
	if err := ctx.Err(); err != nil {
		return Detail{}, err
	}
	raw, err := os.ReadFile(validatedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Detail{}, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(validatedPath))
		}
		return Detail{}, fmt.Errorf("record: read %s: %w", filepath.Base(validatedPath), err)
	}
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Detail{}, fmt.Errorf("record: parse %s: %w", filepath.Base(validatedPath), err)
	}
	return reshape(rec), nil
}

func reshape(rec rawRecord) Detail {
	players := rec.PlayerNames
	if players == nil {
		players = []string{}
	}
	rounds := make([]Round, 0, len(rec.Rounds))
	for _, r := range rec.Rounds {
		history := make([]PlayEvent, 0, len(r.PlayHistory))
		for _, p := range r.PlayHistory {
			cards := p.PlayedCards
			if cards == nil {
				cards = []string{}
			}
			history = append(history, PlayEvent{
				Player:          p.PlayerName,
				PlayedCards:     cards,
				Behavior:        p.Behavior,
				PlayReason:      p.PlayReason,
				WasChallenged:   p.WasChallenged,
				ChallengeReason: p.ChallengeReason,
				ChallengeResult: p.ChallengeResult,
				NextPlayer:      p.NextPlayer,
			})
		}
		rounds = append(rounds, Round{
			RoundID:        r.RoundID,
			TargetCard:     r.TargetCard,
			StartingPlayer: r.StartingPlayer,
			RoundResult:    r.RoundResult,
			History:        history,
		})
	}
	return Detail{
		GameID:  rec.GameID,
		Players: players,
		Winner:  rec.Winner,
		Rounds:  rounds,
	}
}

// Summarize aggregates listing entries into the stats block shown alongside
// the listing. A record with no winner is counted under "unknown".
func Summarize(summaries []Summary) Stats {
	winners := map[string]int{}
	var winnerOrder []string
	playerSet := map[string]struct{}{}
	for _, summary := range summaries {
		winner := summary.Winner
		if winner == "" {
			winner = "unknown"
		}
		if _, seen := winners[winner]; !seen {
			winnerOrder = append(winnerOrder, winner)
		}
		winners[winner]++
		for _, p := range summary.Players {
			playerSet[p] = struct{}{}
		}
	}
	players := make([]string, 0, len(playerSet))
	for p := range playerSet {
		players = append(players, p)
	}
	sort.Strings(players)

	breakdown := make([]WinnerCount, 0, len(winnerOrder))
	for _, name := range winnerOrder {
		breakdown = append(breakdown, WinnerCount{Name: name, Count: winners[name]})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})
	return Stats{
		TotalRecords:    len(summaries),
		UniquePlayers:   players,
		WinnerBreakdown: breakdown,
	}
}
