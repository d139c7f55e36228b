package store

import (
	"sync"

	"github.com/rs/zerolog/log"

	"group-points-bot/internal/model"
	"group-points-bot/internal/pkg/jsonstore"
)

// ProfileFile is the document holding robbery profiles, keyed by user ID.
const ProfileFile = "robbery_profiles.json"

// InitialSuccessRate is the robbery success rate for a fresh profile.
const InitialSuccessRate = 0.5

// ProfileStore holds per-user robbery state. Unlike the upstream plugin,
// profiles are persisted so success rates survive restarts.
type ProfileStore struct {
	js *jsonstore.Store

	mu       sync.Mutex
	profiles map[int64]*model.RobberyProfile
}

// NewProfileStore creates a ProfileStore and loads the profile document.
func NewProfileStore(js *jsonstore.Store) *ProfileStore {
	s := &ProfileStore{
		js:       js,
		profiles: make(map[int64]*model.RobberyProfile),
	}
	js.Load(ProfileFile, &s.profiles)
	log.Info().Int("profiles", len(s.profiles)).Msg("Robbery profiles loaded")
	return s
}

// GetOrCreate returns the robbery profile for userID, creating one with the
// initial success rate on first reference.
func (s *ProfileStore) GetOrCreate(userID int64) *model.RobberyProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = &model.RobberyProfile{SuccessRate: InitialSuccessRate}
		s.profiles[userID] = p
	}
	return p
}

// Save writes the profile document. Write failures are logged, not propagated.
func (s *ProfileStore) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.js.Save(ProfileFile, s.profiles); err != nil {
		log.Error().Err(err).Msg("Failed to save robbery profiles")
	}
}
