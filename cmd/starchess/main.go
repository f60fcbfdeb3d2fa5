package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/benbeisheim/starchess-backend/internal/config"
	"github.com/benbeisheim/starchess-backend/internal/model"
	"github.com/benbeisheim/starchess-backend/internal/play"
	"github.com/benbeisheim/starchess-backend/internal/storage"
	"github.com/benbeisheim/starchess-backend/internal/transport"
	"github.com/benbeisheim/starchess-backend/internal/ws"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	online   bool
	relayURL string
	roomID   string
	seat     string
	name     string
	resume   string
}

func main() {
	config.Load()
	cfg := config.Client()

	var opts options
	flag.BoolVar(&opts.online, "online", false, "play against a peer through a relay")
	flag.StringVar(&opts.relayURL, "relay", "", "relay address, e.g. http://10.0.0.2:3000")
	flag.StringVar(&opts.roomID, "room", "", "room to join; a new room is created when empty")
	flag.StringVar(&opts.seat, "seat", "", "color to play online: white or black (default: white when creating, black when joining)")
	flag.StringVar(&opts.name, "name", "", "nickname shown to the other player")
	flag.StringVar(&opts.resume, "resume", "", "resume a saved local game")
	logLevel := flag.String("log", cfg.LogLevel, "log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	config.SetLogLevel(*logLevel)

	if err := run(cfg, opts); err != nil {
		log.Error().Err(err).Msg("starchess exited")
		os.Exit(1)
	}
}

func run(cfg config.ClientConfig, opts options) error {
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if opts.name != "" {
		prefs.Nickname = opts.name
	}

	game := model.NewGame(uuid.NewString())
	if opts.resume != "" {
		if game, err = store.ResumeGame(opts.resume); err != nil {
			return fmt.Errorf("resume %s: %w", opts.resume, err)
		}
	}

	session := play.NewLocal(game)
	var inbound <-chan ws.Message
	if opts.online {
		client, err := connect(cfg, prefs, opts)
		if err != nil {
			return fmt.Errorf("join room: %w", err)
		}
		defer client.Close()
		// Online games start fresh; the relay replays the room's history.
		session = play.NewOnline(model.NewGame(client.RoomID), client, prefs.Nickname, prefs.Seat)
		inbound = client.Inbound()
		fmt.Printf("room %s, playing %s as %s\n", client.RoomID, prefs.Seat, prefs.Nickname)
	}
	if err := store.SavePreferences(prefs); err != nil {
		log.Warn().Err(err).Msg("failed to save preferences")
	}

	t := newTerminal(session, store, os.Stdout)
	t.draw()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok || t.handle(line) {
				return nil
			}
		case msg, ok := <-inbound:
			if !ok {
				fmt.Fprintln(os.Stdout, "connection to the relay closed")
				inbound = nil
				continue
			}
			t.receive(msg)
		}
	}
}

// resolveSeat picks the online color. Without an explicit choice the peer
// that creates the room plays white and a peer joining one plays black.
func resolveSeat(seat string, creating bool) (model.Color, error) {
	switch model.Color(seat) {
	case model.White, model.Black:
		return model.Color(seat), nil
	case "":
		if creating {
			return model.White, nil
		}
		return model.Black, nil
	}
	return "", fmt.Errorf("seat must be white or black, got %q", seat)
}

// connect resolves the relay from flags, then saved preferences, then the
// environment, and dials the room, creating it first when none was given.
func connect(cfg config.ClientConfig, prefs *storage.Preferences, opts options) (*transport.Client, error) {
	switch {
	case opts.relayURL != "":
		prefs.RelayURL = opts.relayURL
	case prefs.RelayURL == "":
		prefs.RelayURL = cfg.RelayURL
	}
	seat, err := resolveSeat(opts.seat, opts.roomID == "")
	if err != nil {
		return nil, err
	}
	prefs.Seat = seat

	roomID := opts.roomID
	if roomID == "" {
		if roomID, err = transport.CreateRoom(prefs.RelayURL, prefs.Nickname); err != nil {
			return nil, err
		}
	}
	prefs.RoomID = roomID

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return transport.Connect(ctx, prefs.RelayURL, roomID, prefs.Nickname)
}
