// Package console runs the operator's keyboard shortcuts in the server terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/abrezinsky/snailderby/internal/logger"
	"github.com/abrezinsky/snailderby/internal/models"
)

// RoomLister is the slice of the room service the console reads
type RoomLister interface {
	ListRooms(ctx context.Context) []models.RoomSummary
}

// Console maps single keystrokes to operator actions
type Console struct {
	log      logger.Logger
	rooms    RoomLister
	opener   Opener
	lobbyURL string
	out      io.Writer
	quit     context.CancelFunc
	attached []*CRLFWriter
}

// New creates a console. quit is called on q or Ctrl+C.
func New(log logger.Logger, rooms RoomLister, opener Opener, lobbyURL string, out io.Writer, quit context.CancelFunc) *Console {
	return &Console{log: log, rooms: rooms, opener: opener, lobbyURL: lobbyURL, out: out, quit: quit}
}

// Attach registers log outputs that must switch to CRLF while the terminal is raw
func (c *Console) Attach(w ...*CRLFWriter) {
	c.attached = append(c.attached, w...)
}

func (c *Console) setRaw(on bool) {
	for _, w := range c.attached {
		w.SetRaw(on)
	}
}

// PrintHelp lists the shortcuts
func (c *Console) PrintHelp() {
	c.printf("\n%s%s  Keyboard shortcuts:%s\n", bold, green, reset)
	c.printf("    %so%s      - Open the lobby in a browser\n", cyan, reset)
	c.printf("    %sr%s      - List open rooms\n", cyan, reset)
	c.printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	c.printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	c.printf("    %sq%s      - Quit server\n", cyan, reset)
	c.printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

// printf writes with CRLF line endings since the terminal is in raw mode
func (c *Console) printf(format string, args ...any) {
	fmt.Fprint(c.out, strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", "\r\n"))
}

// HandleKey runs the action bound to key. It returns false once the console should stop.
func (c *Console) HandleKey(ctx context.Context, key byte) bool {
	switch strings.ToLower(string(key)) {
	case "o":
		c.printf("%sOpening %s ...%s\n", cyan, c.lobbyURL, reset)
		if err := c.opener.Open(c.lobbyURL); err != nil {
			c.printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "r":
		c.listRooms(ctx)
	case "h":
		if c.log.IsHTTPLoggingEnabled() {
			c.log.DisableHTTPLogging()
			c.printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			c.log.EnableHTTPLogging()
			c.printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		next := nextLevel(c.log.GetLevel())
		c.log.SetLevel(next)
		c.printf("%sLog level: %s%s%s\n", green, yellow, strings.ToLower(next.String()), reset)
	case "q", "\x03":
		c.printf("%sShutting down server...%s\n", yellow, reset)
		c.quit()
		return false
	case "?":
		c.PrintHelp()
	}
	return true
}

func (c *Console) listRooms(ctx context.Context) {
	rooms := c.rooms.ListRooms(ctx)
	if len(rooms) == 0 {
		c.printf("%sNo open rooms%s\n", yellow, reset)
		return
	}
	c.printf("%s%d open room(s):%s\n", bold, len(rooms), reset)
	for _, r := range rooms {
		c.printf("    %-10s %2d players  %s\n", r.Name, r.PlayerCount, r.ID)
	}
}

// nextLevel cycles debug -> info -> warn -> error -> debug
func nextLevel(current slog.Level) slog.Level {
	switch {
	case current < slog.LevelInfo:
		return slog.LevelInfo
	case current < slog.LevelWarn:
		return slog.LevelWarn
	case current < slog.LevelError:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Run reads keystrokes from in until ctx is done or the operator quits.
// It returns immediately when in is not a terminal.
func (c *Console) Run(ctx context.Context, in *os.File) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		c.log.Debug("stdin is not a terminal, keyboard shortcuts disabled")
		return
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		c.log.Warn("Failed to enter raw mode", "error", err)
		return
	}
	c.setRaw(true)
	defer func() {
		c.setRaw(false)
		term.Restore(fd, oldState)
	}()

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := in.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-keys:
			if !ok || !c.HandleKey(ctx, key) {
				return
			}
		}
	}
}
