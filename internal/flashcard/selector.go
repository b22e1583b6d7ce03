package flashcard

import (
	"math/rand"
	"sync"

	"github.com/vytor/klar/internal/models"
)

// RandomSource draws a uniform integer from [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// Weight is the sampling multiplicity of a card: 5 - level.
// Invalid levels get weight 0 and are never drawn.
func Weight(level models.Level) int {
	if !level.Valid() {
		return 0
	}
	return 5 - int(level)
}

// Selector picks the next card to present, favouring lower levels.
type Selector struct {
	src RandomSource
}

func NewSelector(src RandomSource) *Selector {
	return &Selector{src: src}
}

// Next draws one card. Each card counts Weight(level) times and one entry
// is drawn uniformly. It returns false when no card is available.
func (s *Selector) Next(cards []models.Card) (models.Card, bool) {
	total := 0
	for _, c := range cards {
		total += Weight(c.Level)
	}
	if total == 0 {
		return models.Card{}, false
	}

	n := s.src.Intn(total)
	for _, c := range cards {
		w := Weight(c.Level)
		if n < w {
			return c, true
		}
		n -= w
	}
	// unreachable while src honours [0, total)
	return models.Card{}, false
}

// LockedSource is a RandomSource safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedSource seeds a LockedSource.
func NewLockedSource(seed int64) *LockedSource {
	return &LockedSource{rnd: rand.New(rand.NewSource(seed))}
}

func (l *LockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}
