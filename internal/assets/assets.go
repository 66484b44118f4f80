// Package assets loads optional game content from disk.
//
// Every accessor has a deterministic placeholder, so a missing directory or
// file never stops a game from running.
package assets

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/facepad/pkg/logger"
)

// File names inside a content directory.
const (
	Lines1File  = "lines_1.txt"
	Lines2File  = "lines_2.txt"
	AnswersFile = "answers.txt"
	ImagesDir   = "images"
	SoundsDir   = "sounds"
)

// Reaction is the expected answer for a question.
type Reaction int

// Known reactions. Unknown answer values map to ReactionNone.
const (
	ReactionNone Reaction = iota
	ReactionSurprise
	ReactionSmile
)

func (r Reaction) String() string {
	switch r {
	case ReactionSurprise:
		return "surprise"
	case ReactionSmile:
		return "smile"
	default:
		return "none"
	}
}

// ReactionFromValue converts an answer file value.
func ReactionFromValue(v int) Reaction {
	switch Reaction(v) {
	case ReactionSurprise, ReactionSmile:
		return Reaction(v)
	default:
		return ReactionNone
	}
}

// Store holds the content of one directory.
type Store struct {
	dir     string
	lines1  []string
	lines2  []string
	answers []Reaction
	sounds  map[string]int
	rng     *rand.Rand
	logger  logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithRand sets the random source used to pick questions.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New loads dir. Missing files leave the corresponding content empty.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		sounds: map[string]int{},
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // gameplay randomness
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if dir == "" {
		return s
	}

	ctx := context.Background()
	var err error
	if s.lines1, err = readLines(filepath.Join(dir, Lines1File)); err != nil {
		s.logger.Warn(ctx, "reading lines", logger.Error(err))
	}
	if s.lines2, err = readLines(filepath.Join(dir, Lines2File)); err != nil {
		s.logger.Warn(ctx, "reading lines", logger.Error(err))
	}
	if s.answers, err = readAnswers(filepath.Join(dir, AnswersFile)); err != nil {
		s.logger.Warn(ctx, "reading answers", logger.Error(err))
	}
	if err := s.indexSounds(); err != nil {
		s.logger.Warn(ctx, "indexing sounds", logger.Error(err))
	}
	s.logger.Debug(ctx, "assets loaded",
		logger.String("dir", dir),
		logger.Int("lines", max(len(s.lines1), len(s.lines2))),
		logger.Int("answers", len(s.answers)),
		logger.Int("sounds", len(s.sounds)))
	return s
}

// Dir returns the content directory.
func (s *Store) Dir() string { return s.dir }

// QuestionCount is the largest of the line and answer counts, or fallback
// when no content exists.
func (s *Store) QuestionCount(fallback int) int {
	n := max(len(s.lines1), len(s.lines2), len(s.answers))
	if n == 0 {
		return fallback
	}
	return n
}

// PickQuestions returns total question ids in [1, QuestionCount(total)].
// Ids are distinct when enough exist; otherwise every id appears before any
// repeats.
func (s *Store) PickQuestions(total int) []int {
	if total <= 0 {
		return nil
	}
	n := s.QuestionCount(total)
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i + 1
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n >= total {
		return pool[:total]
	}

	out := append([]int(nil), pool...)
	for len(out) < total {
		take := min(n, total-len(out))
		refill := append([]int(nil), pool...)
		s.rng.Shuffle(len(refill), func(i, j int) { refill[i], refill[j] = refill[j], refill[i] })
		out = append(out, refill[:take]...)
	}
	return out
}

// Line1 returns the first prompt line for id, or a placeholder.
func (s *Store) Line1(id int) string {
	if v, ok := at(s.lines1, id); ok {
		return v
	}
	return fmt.Sprintf("Line 1 for scene %d", id)
}

// Line2 returns the second prompt line for id, or a placeholder.
func (s *Store) Line2(id int) string {
	if v, ok := at(s.lines2, id); ok {
		return v
	}
	return fmt.Sprintf("Line 2 for scene %d", id)
}

// Answer returns the expected reaction for id.
func (s *Store) Answer(id int) Reaction {
	if v, ok := at(s.answers, id); ok {
		return v
	}
	return ReactionNone
}

// ImagePath returns the scene image path for id and whether it exists.
func (s *Store) ImagePath(id int) (string, bool) {
	if s.dir == "" {
		return "", false
	}
	p := filepath.Join(s.dir, ImagesDir, fmt.Sprintf("scene_%d.jpeg", id))
	info, err := os.Stat(p)
	return p, err == nil && !info.IsDir()
}

// Sound returns the sound index for name (file name without .wav).
// Missing sounds report false and callers skip playback.
func (s *Store) Sound(name string) (int, bool) {
	i, ok := s.sounds[name]
	return i, ok
}

func (s *Store) indexSounds() error {
	entries, err := os.ReadDir(filepath.Join(s.dir, SoundsDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	sort.Strings(names)
	for i, n := range names {
		s.sounds[n] = i
	}
	return nil
}

func at[T any](items []T, id int) (T, bool) {
	var zero T
	if id < 1 || id > len(items) {
		return zero, false
	}
	return items[id-1], true
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, strings.TrimRight(sc.Text(), "\r"))
	}
	return out, sc.Err()
}

// readAnswers skips blank lines; unparsable values become ReactionNone.
func readAnswers(path string) ([]Reaction, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	var out []Reaction
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		v, err := strconv.Atoi(l)
		if err != nil {
			out = append(out, ReactionNone)
			continue
		}
		out = append(out, ReactionFromValue(v))
	}
	return out, nil
}
