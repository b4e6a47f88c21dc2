package recorder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prsauer/wow-recorder/internal/engine"
)

// ParseResolution parses "WIDTHxHEIGHT" into a Size.
func ParseResolution(s string) (engine.Size, error) {
	xIdx := strings.Index(s, "x")
	if xIdx < 0 {
		return engine.Size{}, fmt.Errorf("resolution %q: missing x separator", s)
	}
	w, err := strconv.Atoi(s[:xIdx])
	if err != nil {
		return engine.Size{}, fmt.Errorf("resolution %q: invalid width: %w", s, err)
	}
	h, err := strconv.Atoi(s[xIdx+1:])
	if err != nil {
		return engine.Size{}, fmt.Errorf("resolution %q: invalid height: %w", s, err)
	}
	if w < 1 || h < 1 {
		return engine.Size{}, fmt.Errorf("resolution %q: dimensions must be positive", s)
	}
	return engine.Size{Width: uint32(w), Height: uint32(h)}, nil
}

// ClosestResolution returns the member of available nearest the target
// size. Width deltas weigh double and height deltas quadruple, so a
// resolution never ties with its own dimension swap. The first
// candidate wins an exact tie. Candidates that do not parse are
// skipped.
func ClosestResolution(available []string, target engine.Size) (string, error) {
	if len(available) == 0 {
		return "", ErrNoResolutionAvailable
	}

	best := ""
	bestScore := 0
	for _, candidate := range available {
		size, err := ParseResolution(candidate)
		if err != nil {
			continue
		}
		score := absInt((int(target.Width)-int(size.Width))*2 + (int(target.Height)-int(size.Height))*4)
		if best == "" || score < bestScore {
			best = candidate
			bestScore = score
		}
	}
	if best == "" {
		return "", ErrNoResolutionAvailable
	}
	return best, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
