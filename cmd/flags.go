package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/facepad/internal/adapters/input"
	"github.com/okian/facepad/internal/games/menu"
)

// options holds the command line.
type options struct {
	game      string
	providers []input.Spec
	cameras   []int
	scale     int
	list      bool
	version   bool
	frames    int64
}

// parseFlags parses args into options. Providers default to the keyboard
// plus one face camera.
func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	opts := options{game: menu.Name}
	var cameras string

	fs.StringVar(&opts.game, "game", opts.game, "Game to start")
	fs.Func("provider", "Input provider name[:camera]; repeatable (keyboard, face)", func(raw string) error {
		spec, err := input.ParseSpec(raw)
		if err != nil {
			return err
		}
		opts.providers = append(opts.providers, spec)
		return nil
	})
	fs.StringVar(&cameras, "cameras", "", "Comma separated camera indices, one per player")
	fs.IntVar(&opts.scale, "scale", 0, "Window scale (overrides config)")
	fs.BoolVar(&opts.list, "list", false, "List registered games and exit")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.Int64Var(&opts.frames, "frames", 0, "Stop after this many frames; 0 runs until quit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.frames < 0 {
		return options{}, fmt.Errorf("-frames must not be negative, got %d", opts.frames)
	}

	var err error
	if opts.cameras, err = parseCameras(cameras); err != nil {
		return options{}, err
	}
	if len(opts.providers) == 0 {
		opts.providers = []input.Spec{{Kind: input.KindKeyboard}, {Kind: input.KindFace}}
	}
	return opts, nil
}

// parseCameras parses "0,2" into [0 2]. Empty means none.
func parseCameras(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid camera index %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}
