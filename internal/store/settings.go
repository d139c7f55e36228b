package store

import (
	"sync"

	"github.com/rs/zerolog/log"

	"group-points-bot/internal/model"
	"group-points-bot/internal/pkg/jsonstore"
)

// Documents owned by SettingsStore.
const (
	DisabledGroupsFile = "disabled_groups.json"
	ImageSettingsFile  = "group_image_settings.json"
)

// ImageKind selects one of the two image-command categories.
type ImageKind int

const (
	ImageNormal ImageKind = iota
	ImageR18
)

type disabledGroupsDoc struct {
	DisabledGroups []int64 `json:"disabled_groups"`
}

// SettingsStore holds group-level switches: the set of groups where the bot
// is fully disabled, and per-group image permission overrides.
type SettingsStore struct {
	js *jsonstore.Store

	mu       sync.RWMutex
	disabled map[int64]bool
	image    map[int64]*model.GroupImageSettings
}

// NewSettingsStore creates a SettingsStore and loads both documents.
func NewSettingsStore(js *jsonstore.Store) *SettingsStore {
	s := &SettingsStore{
		js:       js,
		disabled: make(map[int64]bool),
		image:    make(map[int64]*model.GroupImageSettings),
	}

	var doc disabledGroupsDoc
	js.Load(DisabledGroupsFile, &doc)
	for _, gid := range doc.DisabledGroups {
		s.disabled[gid] = true
	}
	js.Load(ImageSettingsFile, &s.image)

	log.Info().
		Int("disabled_groups", len(s.disabled)).
		Int("image_overrides", len(s.image)).
		Msg("Group settings loaded")
	return s
}

// IsGroupEnabled reports whether the bot is active in the given group.
func (s *SettingsStore) IsGroupEnabled(groupID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.disabled[groupID]
}

// SetGroupEnabled enables or disables the bot in a group.
// It returns false when the group was already in the requested state.
func (s *SettingsStore) SetGroupEnabled(groupID int64, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	currentlyEnabled := !s.disabled[groupID]
	if currentlyEnabled == enabled {
		return false
	}
	if enabled {
		delete(s.disabled, groupID)
	} else {
		s.disabled[groupID] = true
	}
	return true
}

// ImageAllowed reports whether an image category is allowed in a group.
// Groups without an override fall back to the supplied global default.
func (s *SettingsStore) ImageAllowed(groupID int64, kind ImageKind, globalDefault bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.image[groupID]
	if !ok {
		return globalDefault
	}
	if kind == ImageR18 {
		return settings.R18
	}
	return settings.Normal
}

// SetImageAllowed sets a group's override for an image category. A group
// seen for the first time starts from the global defaults before the update.
func (s *SettingsStore) SetImageAllowed(groupID int64, kind ImageKind, allowed, defaultNormal, defaultR18 bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, ok := s.image[groupID]
	if !ok {
		settings = &model.GroupImageSettings{Normal: defaultNormal, R18: defaultR18}
		s.image[groupID] = settings
	}
	if kind == ImageR18 {
		settings.R18 = allowed
	} else {
		settings.Normal = allowed
	}
}

// Save writes both settings documents. Write failures are logged.
func (s *SettingsStore) Save() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := disabledGroupsDoc{DisabledGroups: make([]int64, 0, len(s.disabled))}
	for gid := range s.disabled {
		doc.DisabledGroups = append(doc.DisabledGroups, gid)
	}
	if err := s.js.Save(DisabledGroupsFile, &doc); err != nil {
		log.Error().Err(err).Msg("Failed to save disabled groups")
	}
	if err := s.js.Save(ImageSettingsFile, s.image); err != nil {
		log.Error().Err(err).Msg("Failed to save group image settings")
	}
}
