package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/kidvocab/pkg/models"
)

// RecordStore is the durable storage boundary for session records.
// Get returns nil with no error when no record exists at the key.
type RecordStore interface {
	Get(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// SessionPatch is a partial update merged over the current session record.
// Nil pointer and nil slice/map fields leave the corresponding field
// unchanged; word-history entries are merged per word.
type SessionPatch struct {
	ActiveTab        *string
	SelectedCategory *string
	LearningMode     *string
	CurrentWordIndex *int
	SessionNumber    *int
	RememberedWords  []int
	ForgottenWords   []int
	ExcludedWordIDs  []int
	UserWordHistory  map[int]models.WordHistory
}

// Store is the single source of truth for one learner's SessionData within
// a storage namespace. Updates apply to memory synchronously and reach
// durable storage through a trailing-edge debounced write; sibling stores
// on the same Channel converge by last-writer-wins on LastUpdated.
type Store struct {
	cfg     Config
	records RecordStore
	channel Channel
	now     func() time.Time

	mu          sync.Mutex
	data        models.SessionData
	timer       *time.Timer
	dirty       bool
	lastWritten int64
	closed      bool
	unsubscribe func()
}

// NewStore creates a store over the given durable record store and
// notification channel. The channel may be nil for isolated deployments.
// Call Load before use and Close on shutdown to flush pending state.
func NewStore(cfg Config, records RecordStore, channel Channel) *Store {
	if cfg.Key == "" {
		cfg.Key = DefaultConfig().Key
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultConfig().MaxAge
	}
	if cfg.Version == "" {
		cfg.Version = SchemaVersion
	}

	s := &Store{
		cfg:     cfg,
		records: records,
		channel: channel,
		now:     time.Now,
	}
	s.data = s.fresh()
	if channel != nil {
		s.unsubscribe = channel.Subscribe(s.handleRemote)
	}
	return s
}

// Load reads the durable record and makes it the in-memory state. A
// missing, corrupt, invalid, version-incompatible, or expired record is
// replaced with freshly-created defaults; the bad record is deleted so it
// is not parsed again. Storage read failures fall back to defaults too:
// losing a record is preferred over blocking the learner.
func (s *Store) Load() models.SessionData {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.records.Get(s.cfg.Key)
	if err != nil {
		log.Printf("session: failed to read record %q, starting fresh: %v", s.cfg.Key, err)
		raw = nil
	}

	if raw != nil {
		var probe models.SessionData
		if err := json.Unmarshal(raw, &probe); err != nil {
			log.Printf("session: discarding corrupt record %q: %v", s.cfg.Key, err)
			s.discard()
		} else if !IsValidSessionData(probe, s.cfg.Version) {
			log.Printf("session: discarding invalid record %q", s.cfg.Key)
			s.discard()
		} else if s.nowMillis()-probe.LastUpdated > s.cfg.MaxAge.Milliseconds() {
			log.Printf("session: discarding expired record %q", s.cfg.Key)
			s.discard()
		} else {
			// Merge over defaults so fields absent from older minor
			// versions pick up their default values
			data := s.cfg.InitialData.Clone()
			if err := json.Unmarshal(raw, &data); err != nil {
				log.Printf("session: discarding unreadable record %q: %v", s.cfg.Key, err)
				s.discard()
			} else {
				data.Version = s.cfg.Version
				s.data = data
				s.lastWritten = data.LastUpdated
				s.dirty = false
				return s.data.Clone()
			}
		}
	}

	s.data = s.fresh()
	s.lastWritten = s.data.LastUpdated
	s.dirty = false
	return s.data.Clone()
}

// Data returns a copy of the current in-memory record
func (s *Store) Data() models.SessionData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Update merges the patch over the in-memory record, stamps LastUpdated,
// and schedules a debounced durable write. Each call resets the pending
// timer, so a burst of updates produces a single write carrying the final
// merged state. The returned copy reflects the state after the merge.
func (s *Store) Update(patch SessionPatch) models.SessionData {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.data.Clone()
	}

	s.apply(patch)
	s.stamp()
	s.dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.Debounce, s.onDebounce)

	return s.data.Clone()
}

// Clear deletes the durable record immediately, bypassing any pending
// debounce, and resets the in-memory state to fresh defaults with a new
// SessionStartTime.
func (s *Store) Clear() models.SessionData {
	s.mu.Lock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.dirty = false

	if err := s.records.Delete(s.cfg.Key); err != nil {
		log.Printf("session: failed to delete record %q: %v", s.cfg.Key, err)
	}

	s.data = s.fresh()
	s.lastWritten = s.data.LastUpdated
	snap := Snapshot{Key: s.cfg.Key, Data: s.data.Clone()}
	out := s.data.Clone()
	s.mu.Unlock()

	s.publish(&snap)
	return out
}

// Flush performs any pending durable write immediately
func (s *Store) Flush() {
	s.mu.Lock()
	snap := s.write()
	s.mu.Unlock()
	s.publish(snap)
}

// Close flushes pending state and detaches the store from its channel.
// Further updates are ignored. This is the teardown counterpart of a
// browser's unload hook.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snap := s.write()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	s.publish(snap)
}

// apply merges a patch into the current record. Forgotten-word updates are
// applied before remembered-word updates so a word listed in both lands in
// the remembered set only; the two sets stay disjoint after every update.
func (s *Store) apply(patch SessionPatch) {
	if patch.ActiveTab != nil {
		s.data.ActiveTab = *patch.ActiveTab
	}
	if patch.SelectedCategory != nil {
		s.data.SelectedCategory = *patch.SelectedCategory
	}
	if patch.LearningMode != nil {
		s.data.LearningMode = *patch.LearningMode
	}
	if patch.CurrentWordIndex != nil {
		s.data.CurrentWordIndex = *patch.CurrentWordIndex
	}
	if patch.SessionNumber != nil {
		s.data.SessionNumber = *patch.SessionNumber
	}
	if patch.ExcludedWordIDs != nil {
		s.data.ExcludedWordIDs = append([]int(nil), patch.ExcludedWordIDs...)
	}
	if patch.ForgottenWords != nil {
		s.data.ForgottenWords = append([]int(nil), patch.ForgottenWords...)
		s.data.RememberedWords = removeAll(s.data.RememberedWords, patch.ForgottenWords)
	}
	if patch.RememberedWords != nil {
		s.data.RememberedWords = append([]int(nil), patch.RememberedWords...)
		s.data.ForgottenWords = removeAll(s.data.ForgottenWords, patch.RememberedWords)
	}
	if patch.UserWordHistory != nil {
		if s.data.UserWordHistory == nil {
			s.data.UserWordHistory = make(map[int]models.WordHistory, len(patch.UserWordHistory))
		}
		for id, h := range patch.UserWordHistory {
			s.data.UserWordHistory[id] = h
		}
	}
}

// stamp sets LastUpdated to now, never moving it backwards
func (s *Store) stamp() {
	now := s.nowMillis()
	if now <= s.data.LastUpdated {
		now = s.data.LastUpdated + 1
	}
	s.data.LastUpdated = now
}

// onDebounce runs when the debounce window elapses with no further updates
func (s *Store) onDebounce() {
	s.mu.Lock()
	snap := s.write()
	s.mu.Unlock()
	s.publish(snap)
}

// write persists the current record if dirty and returns the snapshot to
// broadcast. Write failures are logged and swallowed: the in-memory state
// stays correct for this context, only durability is lost. Callers must
// hold mu.
func (s *Store) write() *Snapshot {
	if !s.dirty {
		return nil
	}

	s.data.Version = s.cfg.Version
	raw, err := json.Marshal(s.data)
	if err != nil {
		log.Printf("session: failed to encode record %q: %v", s.cfg.Key, err)
		return nil
	}
	if err := s.records.Save(s.cfg.Key, raw); err != nil {
		log.Printf("session: failed to save record %q: %v", s.cfg.Key, err)
	}

	s.dirty = false
	s.lastWritten = s.data.LastUpdated
	return &Snapshot{Key: s.cfg.Key, Data: s.data.Clone()}
}

// handleRemote adopts a record written by another store sharing the same
// key, last-writer-wins by LastUpdated. A snapshot no newer than our own
// last write is ignored; there is no field-level merge, so a concurrent
// local update inside the debounce window can be silently lost.
func (s *Store) handleRemote(snap Snapshot) {
	if snap.Key != s.cfg.Key {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || snap.Data.LastUpdated <= s.lastWritten {
		return
	}

	s.data = snap.Data.Clone()
	s.lastWritten = snap.Data.LastUpdated
	s.dirty = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// discard deletes the durable record ahead of a reset to defaults.
// Callers must hold mu.
func (s *Store) discard() {
	if err := s.records.Delete(s.cfg.Key); err != nil {
		log.Printf("session: failed to delete record %q: %v", s.cfg.Key, err)
	}
}

// fresh builds a default record with a new SessionStartTime
func (s *Store) fresh() models.SessionData {
	now := s.nowMillis()
	data := s.cfg.InitialData.Clone()
	if data.RememberedWords == nil {
		data.RememberedWords = []int{}
	}
	if data.ForgottenWords == nil {
		data.ForgottenWords = []int{}
	}
	if data.ExcludedWordIDs == nil {
		data.ExcludedWordIDs = []int{}
	}
	if data.UserWordHistory == nil {
		data.UserWordHistory = map[int]models.WordHistory{}
	}
	if data.SessionNumber < 1 {
		data.SessionNumber = 1
	}
	data.SessionStartTime = now
	data.LastUpdated = now
	data.Version = s.cfg.Version
	return data
}

func (s *Store) publish(snap *Snapshot) {
	if snap != nil && s.channel != nil {
		s.channel.Publish(*snap)
	}
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// removeAll returns ids without any member of the drop list
func removeAll(ids []int, drop []int) []int {
	dropSet := make(map[int]bool, len(drop))
	for _, id := range drop {
		dropSet[id] = true
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !dropSet[id] {
			out = append(out, id)
		}
	}
	return out
}
