package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/benbeisheim/starchess-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/rs/zerolog/log"
)

const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	prefixGame     = "game/"
)

var ErrGameNotFound = errors.New("saved game not found")

// Preferences are the client's remembered connection settings.
type Preferences struct {
	Nickname   string      `json:"nickname"`
	RelayURL   string      `json:"relay_url"`
	RoomID     string      `json:"room_id"`
	Seat       model.Color `json:"seat"`
	LastPlayed time.Time   `json:"last_played"`
}

// DefaultPreferences gives every fresh install a readable random nickname,
// which doubles as its player id on the relay.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Nickname: petname.Generate(2, "-"),
		Seat:     model.White,
	}
}

// SavedGame is a game stored as its action tokens.
type SavedGame struct {
	Name    string       `json:"name"`
	Actions []string     `json:"actions"`
	Result  model.Result `json:"result"`
	SavedAt time.Time    `json:"saved_at"`
}

// Stats counts finished games by outcome.
type Stats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
}

type Storage struct {
	db *badger.DB
}

// Open opens the badger database under dataDir (the platform data
// directory when empty).
func Open(dataDir string) (*Storage, error) {
	dbDir, err := GetDatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbDir, err)
	}
	log.Debug().Str("dir", dbDir).Msg("storage opened")
	return &Storage{db: db}, nil
}

// OpenInMemory keeps everything in memory; nothing survives Close.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v and reports whether it was present.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences returns the stored preferences, or defaults if none were
// saved yet.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SaveGame stores the game's action list under name, replacing any earlier
// save with the same name.
func (s *Storage) SaveGame(name string, state model.GameState) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("save name must not be empty")
	}
	return s.put(prefixGame+name, SavedGame{
		Name:    name,
		Actions: state.Actions,
		Result:  state.Result,
		SavedAt: time.Now(),
	})
}

func (s *Storage) LoadGame(name string) (*SavedGame, error) {
	var saved SavedGame
	found, err := s.get(prefixGame+name, &saved)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, name)
	}
	return &saved, nil
}

// ResumeGame rebuilds a saved game by replaying its actions.
func (s *Storage) ResumeGame(name string) (*model.Game, error) {
	saved, err := s.LoadGame(name)
	if err != nil {
		return nil, err
	}
	return model.ReplayActions(name, saved.Actions)
}

// ListGames returns the names of all saved games, sorted.
func (s *Storage) ListGames() ([]string, error) {
	names := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), prefixGame))
		}
		return nil
	})
	sort.Strings(names)
	return names, err
}

func (s *Storage) DeleteGame(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixGame + name))
	})
}

func (s *Storage) LoadStats() (*Stats, error) {
	stats := &Stats{}
	if _, err := s.get(keyStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordResult counts a finished game. Games without a result are ignored.
func (s *Storage) RecordResult(result model.Result) error {
	if result == model.ResultNone {
		return nil
	}
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.GamesPlayed++
	switch result {
	case model.ResultWhiteWins:
		stats.WhiteWins++
	case model.ResultBlackWins:
		stats.BlackWins++
	}
	return s.put(keyStats, stats)
}
