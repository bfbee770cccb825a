package logger

import (
	"strconv"
	"strings"
	"sync"
)

// ratioSampler passes the first allow events out of every window. Debug
// lines on the hot update path go through it so a busy bot does not
// drown the log in per-update noise.
type ratioSampler struct {
	mu     sync.Mutex
	allow  int
	window int
	seen   int
}

func newRatioSampler(allow, window int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(allow, window)
	return s
}

// Set replaces the ratio. Non-positive values disable sampling so every
// event passes.
func (s *ratioSampler) Set(allow, window int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if allow <= 0 || window <= 0 {
		s.allow, s.window, s.seen = 0, 0, 0
		return
	}
	if allow > window {
		allow = window
	}
	s.allow = allow
	s.window = window
	s.seen = 0
}

// Allow reports whether the next event fits inside the current window.
func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window <= 0 {
		return true
	}
	s.seen++
	if s.seen > s.window {
		s.seen = 1
	}
	return s.seen <= s.allow
}

// parseRatioSpec reads either "1/50" or a bare window size "50"
// (meaning 1 out of 50). Anything unparseable disables sampling.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if num, den, found := strings.Cut(spec, "/"); found {
		n, errN := strconv.Atoi(strings.TrimSpace(num))
		d, errD := strconv.Atoi(strings.TrimSpace(den))
		if errN != nil || errD != nil {
			return 0, 0
		}
		return n, d
	}
	v, err := strconv.Atoi(spec)
	if err != nil || v <= 0 {
		return 0, 0
	}
	return 1, v
}
