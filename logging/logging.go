package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jdginn/rcposc/translate"
)

type LogCategory string

const (
	META    LogCategory = "meta" // For logs about logging
	RCP_IN  LogCategory = "rcp_in"
	RCP_OUT LogCategory = "rcp_out"
	OSC_IN  LogCategory = "osc_in"
	OSC_OUT LogCategory = "osc_out"
	BRIDGE  LogCategory = "bridge" // Connection setup, pump lifecycle
)

// LevelRoute is the OSC address pattern for runtime level changes.
// The single argument is an int: -4 Debug, 0 Info, 4 Warn, 8 Error.
const LevelRoute = "/meta/logging/@/level"

func strToLogCategory(s string) (LogCategory, bool) {
	switch s {
	case "meta":
		return META, true
	case "rcp_in":
		return RCP_IN, true
	case "rcp_out":
		return RCP_OUT, true
	case "osc_in":
		return OSC_IN, true
	case "osc_out":
		return OSC_OUT, true
	case "bridge":
		return BRIDGE, true
	default:
		return "", false
	}
}

// ParseCategory validates a category name from config or the command line.
func ParseCategory(s string) (LogCategory, error) {
	cat, ok := strToLogCategory(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", fmt.Errorf("unknown log category %q", s)
	}
	return cat, nil
}

// ParseLevel accepts debug, info, warn and error, optionally with an offset
// such as "info+2".
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

func Categories() []LogCategory {
	return []LogCategory{META, RCP_IN, RCP_OUT, OSC_IN, OSC_OUT, BRIDGE}
}

var output io.Writer = os.Stderr

// Internal state for loggers per category
var (
	mu               = new(sync.RWMutex)
	loggers          = map[LogCategory]*slog.Logger{}
	categoryLvls     = map[LogCategory]*slog.LevelVar{}
	defaultLogLevels = map[LogCategory]slog.Level{
		META:    slog.LevelInfo,
		RCP_IN:  slog.LevelInfo,
		RCP_OUT: slog.LevelInfo,
		OSC_IN:  slog.LevelInfo,
		OSC_OUT: slog.LevelInfo,
		BRIDGE:  slog.LevelInfo,
	}
)

// SetOutput redirects every category logger to w. Levels are kept.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	loggers = map[LogCategory]*slog.Logger{}
}

// Get returns a slog.Logger that always has the "category" attribute set.
// Each category gets its own logger instance.
func Get(category LogCategory) *slog.Logger {
	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	// Double-check after locking
	if l, ok := loggers[category]; ok {
		return l
	}
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: levelVarLocked(category),
	})
	catLogger := slog.New(handler).With("category", category)
	loggers[category] = catLogger
	return catLogger
}

func levelVarLocked(category LogCategory) *slog.LevelVar {
	lvlVar, ok := categoryLvls[category]
	if !ok {
		lvlVar = new(slog.LevelVar)
		lvlVar.Set(defaultLogLevels[category])
		categoryLvls[category] = lvlVar
	}
	return lvlVar
}

func SetCategoryLevel(category LogCategory, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	levelVarLocked(category).Set(level)
}

// SetAllLevels applies level to every known category.
func SetAllLevels(level slog.Level) {
	for _, cat := range Categories() {
		SetCategoryLevel(cat, level)
	}
}

func CategoryLevel(category LogCategory) slog.Level {
	mu.Lock()
	defer mu.Unlock()
	return levelVarLocked(category).Level()
}

// HandleOSCSetCategoryLevel serves LevelRoute; captures holds the category.
func HandleOSCSetCategoryLevel(msg translate.Message, captures []string) {
	if len(captures) != 1 {
		return
	}
	cat, ok := strToLogCategory(captures[0])
	if !ok {
		Get(META).Info("Unrecognized log category in OSC message", "category", captures[0])
		return
	}
	if len(msg.Args) == 0 {
		Get(META).Error("Missing level in OSC message", "address", msg.Address)
		return
	}
	level, ok := msg.Args[0].AsInt()
	if !ok {
		Get(META).Error("Invalid level type in OSC message", "expected", "int", "got", msg.Args[0].Type())
		return
	}
	Get(META).Info("Setting category level via OSC",
		"category", cat,
		"level", level)
	SetCategoryLevel(cat, slog.Level(level))
}
