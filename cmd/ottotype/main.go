// OttoType — system-wide voice dictation.
//
// Toggle listening with the global hotkey (or space in the terminal),
// speak, and the words land in whatever window has focus. Say "new
// line" or "enter" to press Return.
//
// Usage:
//
//	ottotype [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottotype/internal/audio"
	"github.com/hammamikhairi/ottotype/internal/config"
	"github.com/hammamikhairi/ottotype/internal/cues"
	"github.com/hammamikhairi/ottotype/internal/display"
	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/hotkey"
	"github.com/hammamikhairi/ottotype/internal/logger"
	"github.com/hammamikhairi/ottotype/internal/segment"
	"github.com/hammamikhairi/ottotype/internal/session"
	"github.com/hammamikhairi/ottotype/internal/stt"
	"github.com/hammamikhairi/ottotype/internal/transcript"
	"github.com/hammamikhairi/ottotype/internal/typist"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".ottotype-logs/ottotype.log", "file to write logs to (use \"stderr\" to log to console)")
	noHotkey := flag.Bool("no-hotkey", false, "disable the global toggle hotkey")
	noCues := flag.Bool("no-cues", false, "disable start/stop audio cues")
	gain := flag.Float64("gain", 1.0, "microphone gain multiplier")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the UI stays clean.
	var log *logger.Logger
	if *logFile != "" && *logFile != "stderr" {
		var closeLog func()
		var err error
		log, closeLog, err = logger.NewFile(logLevel, *logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
			log = logger.New(logLevel, os.Stderr)
		} else {
			defer closeLog()
		}
	} else {
		log = logger.New(logLevel, os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, domain.ErrMissingAPIKey) {
			fmt.Fprintf(os.Stderr, "set %s in the environment or a .env file\n", config.EnvAPIKey)
		}
		os.Exit(1)
	}

	if err := audio.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer audio.Terminate()

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	deepgram, err := stt.NewDeepgram(cfg.APIKey, log,
		stt.WithModel(cfg.Model),
		stt.WithLanguage(cfg.Language),
		stt.WithSampleRate(cfg.SampleRate),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	store, err := transcript.NewStore(cfg.DataDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Typing degrades to log-only when xdotool is missing; dictation
	// still records, it just can't inject keystrokes.
	var typ domain.Typist
	typ, err = typist.NewXDoTool(log)
	xdotoolMissing := false
	if err != nil {
		log.Warn("typing disabled: %v", err)
		typ = typist.NewLogOnly(log)
		xdotoolMissing = true
	}

	capture := audio.NewCapture(log, audio.WithGain(*gain))

	var ctrl *session.Controller
	var ui *display.UI

	ui = display.NewUI(display.Hooks{
		OnToggle: func() {
			if err := ctrl.Toggle(ctx); err != nil {
				log.Error("toggle: %v", err)
			}
		},
		OnSave: func() {
			path, err := store.Save()
			if err != nil {
				log.Error("save: %v", err)
				return
			}
			ui.PrintHint("Transcript saved to " + path)
		},
		OnClear: func() {
			store.Clear()
			ui.PrintHint("Transcript cleared")
		},
	})

	// Audio cues are best-effort; no output device just means silence.
	var player *cues.Player
	if !*noCues {
		player, err = cues.NewPlayer(log)
		if err != nil {
			log.Warn("audio cues disabled: %v", err)
		}
	}

	notifier := &statusFanout{ui: ui, cues: player}
	sink := &sinkFanout{store: store, ui: ui}

	ctrl = session.New(deepgram, capture, segment.New(log), typ, sink, log,
		session.WithNotifier(notifier),
	)

	// Global hotkey listener.
	if !*noHotkey {
		listener := hotkey.New(typ, func() {
			if err := ctrl.Toggle(ctx); err != nil {
				log.Error("hotkey toggle: %v", err)
			}
		}, log)
		go func() {
			if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("hotkey: %v", err)
			}
		}()
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Press space (or Ctrl+Shift+Space anywhere) to toggle dictation."))
	if xdotoolMissing {
		fmt.Println(display.BannerStyle.Render("  xdotool not found — transcripts are recorded but not typed."))
	}
	fmt.Println()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}

	if err := ctrl.Stop(); err != nil && !errors.Is(err, domain.ErrNotListening) {
		log.Error("shutdown: %v", err)
	}
	cancel()
}

// statusFanout forwards status changes to the UI and plays the cue
// tones on idle/listening transitions.
type statusFanout struct {
	ui   *display.UI
	cues *cues.Player // nil when audio output is unavailable

	mu   sync.Mutex
	prev domain.Status
}

func (n *statusFanout) StatusChanged(status domain.Status) {
	n.ui.StatusChanged(status)

	if n.cues == nil {
		return
	}
	n.mu.Lock()
	prev := n.prev
	n.prev = status
	n.mu.Unlock()

	// Only the idle boundary gets a tone. Listening fires again after
	// every typed utterance, and beeping each time would be grating.
	switch {
	case prev == domain.StatusIdle && status == domain.StatusListening:
		n.cues.Start()
	case status == domain.StatusIdle && prev != domain.StatusIdle:
		n.cues.Stop()
	}
}

// sinkFanout records transcripts and mirrors them into the UI
// scrollback.
type sinkFanout struct {
	store *transcript.Store
	ui    *display.UI
}

func (s *sinkFanout) Append(ctx context.Context, text string) error {
	s.ui.PrintTranscript(text)
	return s.store.Append(ctx, text)
}
