package service

import (
	"math/rand/v2"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// EpisodePicker draws episodes uniformly at random
type EpisodePicker struct {
	rng *rand.Rand
}

// NewEpisodePicker creates a picker; a nil source seeds from the runtime
func NewEpisodePicker(src rand.Source) *EpisodePicker {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &EpisodePicker{rng: rand.New(src)}
}

// Pick returns one of episodes. An empty list is ErrNoEpisodes.
func (p *EpisodePicker) Pick(episodes []domain.Episode) (domain.Episode, error) {
	if len(episodes) == 0 {
		return domain.Episode{}, domain.ErrNoEpisodes
	}
	return episodes[p.rng.IntN(len(episodes))], nil
}
