package session

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/kidvocab/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecords is an in-memory RecordStore with failure injection
type fakeRecords struct {
	mu       sync.Mutex
	records  map[string][]byte
	saves    int
	deletes  int
	failSave bool
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: make(map[string][]byte)}
}

func (f *fakeRecords) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.records[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), raw...), nil
}

func (f *fakeRecords) Save(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("quota exceeded")
	}
	f.records[key] = append([]byte(nil), data...)
	f.saves++
	return nil
}

func (f *fakeRecords) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, key)
	f.deletes++
	return nil
}

func (f *fakeRecords) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakeRecords) stored(t *testing.T, key string) *models.SessionData {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.records[key]
	if !ok {
		return nil
	}
	var data models.SessionData
	require.NoError(t, json.Unmarshal(raw, &data))
	return &data
}

func (f *fakeRecords) put(t *testing.T, key string, data models.SessionData) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	f.mu.Lock()
	f.records[key] = raw
	f.mu.Unlock()
}

// fakeClock hands out a manually-advanced time
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Key = "test_session"
	cfg.Debounce = 30 * time.Millisecond
	cfg.MaxAge = time.Hour
	return cfg
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func validRecord(lastUpdated int64) models.SessionData {
	return models.SessionData{
		ActiveTab:        "learning",
		SelectedCategory: "animals",
		LearningMode:     "quiz",
		CurrentWordIndex: 4,
		RememberedWords:  []int{1, 2},
		ForgottenWords:   []int{3},
		ExcludedWordIDs:  []int{},
		SessionNumber:    3,
		UserWordHistory:  map[int]models.WordHistory{},
		LastUpdated:      lastUpdated,
		SessionStartTime: lastUpdated - 1000,
		Version:          SchemaVersion,
	}
}

func TestLoadNoRecordReturnsDefaults(t *testing.T) {
	recs := newFakeRecords()
	store := NewStore(testConfig(), recs, nil)
	defer store.Close()

	data := store.Load()

	assert.Equal(t, "dashboard", data.ActiveTab)
	assert.Equal(t, 1, data.SessionNumber)
	assert.Equal(t, SchemaVersion, data.Version)
	assert.NotZero(t, data.SessionStartTime)
	assert.Equal(t, data.SessionStartTime, data.LastUpdated)
}

func TestLoadCorruptRecordResetsAndDeletes(t *testing.T) {
	recs := newFakeRecords()
	recs.records["test_session"] = []byte("{not json")

	store := NewStore(testConfig(), recs, nil)
	defer store.Close()
	data := store.Load()

	assert.Equal(t, "dashboard", data.ActiveTab)
	assert.Nil(t, recs.stored(t, "test_session"))
}

func TestLoadExpiredRecord(t *testing.T) {
	cfg := testConfig()
	clk := newFakeClock()
	now := clk.Now().UnixMilli()

	// One millisecond over max age: reset and delete
	recs := newFakeRecords()
	recs.put(t, cfg.Key, validRecord(now-cfg.MaxAge.Milliseconds()-1))
	store := NewStore(cfg, recs, nil)
	store.now = clk.Now
	data := store.Load()
	store.Close()

	assert.Equal(t, "dashboard", data.ActiveTab)
	assert.Nil(t, recs.stored(t, cfg.Key))

	// Exactly at max age: preserved
	recs = newFakeRecords()
	recs.put(t, cfg.Key, validRecord(now-cfg.MaxAge.Milliseconds()))
	store = NewStore(cfg, recs, nil)
	store.now = clk.Now
	data = store.Load()
	store.Close()

	assert.Equal(t, "learning", data.ActiveTab)
	assert.NotNil(t, recs.stored(t, cfg.Key))
}

func TestLoadVersionGate(t *testing.T) {
	cfg := testConfig()
	clk := newFakeClock()
	now := clk.Now().UnixMilli()

	// Major version mismatch: reset to defaults
	rec := validRecord(now)
	rec.Version = "2.0"
	recs := newFakeRecords()
	recs.put(t, cfg.Key, rec)
	store := NewStore(cfg, recs, nil)
	store.now = clk.Now
	data := store.Load()
	store.Close()

	assert.Equal(t, "dashboard", data.ActiveTab)
	assert.Nil(t, recs.stored(t, cfg.Key))

	// Minor version drift: accepted and merged over defaults
	rec = validRecord(now)
	rec.Version = "1.7"
	recs = newFakeRecords()
	recs.put(t, cfg.Key, rec)
	store = NewStore(cfg, recs, nil)
	store.now = clk.Now
	data = store.Load()
	store.Close()

	assert.Equal(t, "learning", data.ActiveTab)
	assert.Equal(t, []int{1, 2}, data.RememberedWords)
	assert.Equal(t, SchemaVersion, data.Version)
}

func TestUpdateDebouncesToSingleWrite(t *testing.T) {
	recs := newFakeRecords()
	store := NewStore(testConfig(), recs, nil)
	defer store.Close()
	store.Load()

	before := store.Data().LastUpdated

	// A burst of updates inside the debounce window
	store.Update(SessionPatch{ActiveTab: strPtr("learning")})
	store.Update(SessionPatch{SelectedCategory: strPtr("animals")})
	store.Update(SessionPatch{CurrentWordIndex: intPtr(7)})

	// In-memory state is visible immediately
	data := store.Data()
	assert.Equal(t, "learning", data.ActiveTab)
	assert.Equal(t, "animals", data.SelectedCategory)
	assert.Equal(t, 7, data.CurrentWordIndex)
	assert.Equal(t, 0, recs.saveCount())

	// After the window elapses there is exactly one durable write with the
	// final merged state
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, recs.saveCount())

	written := recs.stored(t, "test_session")
	require.NotNil(t, written)
	assert.Equal(t, "learning", written.ActiveTab)
	assert.Equal(t, "animals", written.SelectedCategory)
	assert.Equal(t, 7, written.CurrentWordIndex)
	assert.GreaterOrEqual(t, written.LastUpdated, before)
}

func TestUpdateResetsDebounceTimer(t *testing.T) {
	cfg := testConfig()
	cfg.Debounce = 80 * time.Millisecond
	recs := newFakeRecords()
	store := NewStore(cfg, recs, nil)
	defer store.Close()
	store.Load()

	// Keep updating more often than the window; no write may land
	for i := 0; i < 4; i++ {
		store.Update(SessionPatch{CurrentWordIndex: intPtr(i)})
		time.Sleep(30 * time.Millisecond)
	}
	assert.Equal(t, 0, recs.saveCount())

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, recs.saveCount())
}

func TestCloseFlushesPendingWrite(t *testing.T) {
	cfg := testConfig()
	cfg.Debounce = 10 * time.Second
	recs := newFakeRecords()
	store := NewStore(cfg, recs, nil)
	store.Load()

	store.Update(SessionPatch{ActiveTab: strPtr("learning")})
	assert.Equal(t, 0, recs.saveCount())

	store.Close()

	assert.Equal(t, 1, recs.saveCount())
	written := recs.stored(t, cfg.Key)
	require.NotNil(t, written)
	assert.Equal(t, "learning", written.ActiveTab)

	// Updates after close are ignored
	store.Update(SessionPatch{ActiveTab: strPtr("dashboard")})
	assert.Equal(t, 1, recs.saveCount())
}

func TestClearResetsImmediately(t *testing.T) {
	cfg := testConfig()
	cfg.Debounce = 10 * time.Second
	recs := newFakeRecords()
	store := NewStore(cfg, recs, nil)
	defer store.Close()

	first := store.Load()
	store.Update(SessionPatch{ActiveTab: strPtr("learning")})

	time.Sleep(2 * time.Millisecond)
	data := store.Clear()

	assert.Equal(t, "dashboard", data.ActiveTab)
	assert.Nil(t, recs.stored(t, cfg.Key))
	assert.GreaterOrEqual(t, data.SessionStartTime, first.SessionStartTime)

	// The cancelled debounce timer must not resurrect the old state
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, recs.saveCount())
}

func TestLastUpdatedMonotonic(t *testing.T) {
	recs := newFakeRecords()
	store := NewStore(testConfig(), recs, nil)
	defer store.Close()
	store.Load()

	var prev int64
	for i := 0; i < 10; i++ {
		data := store.Update(SessionPatch{CurrentWordIndex: intPtr(i)})
		assert.Greater(t, data.LastUpdated, prev)
		prev = data.LastUpdated
	}
}

func TestDisjointSets(t *testing.T) {
	recs := newFakeRecords()
	store := NewStore(testConfig(), recs, nil)
	defer store.Close()
	store.Load()

	// A word listed in both sets lands in remembered only
	data := store.Update(SessionPatch{
		RememberedWords: []int{1, 2},
		ForgottenWords:  []int{2, 3},
	})
	assert.Equal(t, []int{1, 2}, data.RememberedWords)
	assert.Equal(t, []int{3}, data.ForgottenWords)

	// Moving a forgotten word to remembered removes it from forgotten
	data = store.Update(SessionPatch{RememberedWords: []int{1, 2, 3}})
	assert.Equal(t, []int{1, 2, 3}, data.RememberedWords)
	assert.Empty(t, data.ForgottenWords)

	// And the other way around
	data = store.Update(SessionPatch{ForgottenWords: []int{1}})
	assert.Equal(t, []int{2, 3}, data.RememberedWords)
	assert.Equal(t, []int{1}, data.ForgottenWords)
}

func TestWordHistoryMerge(t *testing.T) {
	recs := newFakeRecords()
	store := NewStore(testConfig(), recs, nil)
	defer store.Close()
	store.Load()

	store.Update(SessionPatch{UserWordHistory: map[int]models.WordHistory{
		1: {Attempts: 1, LastRating: 3},
		2: {Attempts: 2, LastRating: 5},
	}})
	data := store.Update(SessionPatch{UserWordHistory: map[int]models.WordHistory{
		1: {Attempts: 2, LastRating: 4},
	}})

	assert.Equal(t, 2, data.UserWordHistory[1].Attempts)
	assert.Equal(t, 4, data.UserWordHistory[1].LastRating)
	assert.Equal(t, 2, data.UserWordHistory[2].Attempts)
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	recs := newFakeRecords()
	recs.failSave = true
	store := NewStore(testConfig(), recs, nil)
	defer store.Close()
	store.Load()

	store.Update(SessionPatch{ActiveTab: strPtr("learning")})
	store.Flush()

	// Durability is lost but the in-memory state stays correct
	assert.Equal(t, "learning", store.Data().ActiveTab)
	assert.Equal(t, 0, recs.saveCount())
}

func TestLastWriterWinsAcrossStores(t *testing.T) {
	cfg := testConfig()
	cfg.Debounce = 10 * time.Second
	recs := newFakeRecords()
	bus := NewBus()
	clk := newFakeClock()

	a := NewStore(cfg, recs, bus)
	a.now = clk.Now
	b := NewStore(cfg, recs, bus)
	b.now = clk.Now
	defer a.Close()
	defer b.Close()

	a.Load()
	b.Load()

	clk.advance(time.Second)
	a.Update(SessionPatch{SelectedCategory: strPtr("animals")})
	a.Flush()

	// B adopts A's newer record wholesale
	assert.Equal(t, "animals", b.Data().SelectedCategory)

	// An older snapshot arriving later is ignored regardless of order
	stale := validRecord(1)
	stale.SelectedCategory = "colors"
	bus.Publish(Snapshot{Key: cfg.Key, Data: stale})
	assert.Equal(t, "animals", b.Data().SelectedCategory)
	assert.Equal(t, "animals", a.Data().SelectedCategory)
}

func TestRemoteSnapshotForOtherKeyIgnored(t *testing.T) {
	cfg := testConfig()
	recs := newFakeRecords()
	bus := NewBus()

	store := NewStore(cfg, recs, bus)
	defer store.Close()
	store.Load()

	other := validRecord(time.Now().UnixMilli() + 100000)
	bus.Publish(Snapshot{Key: "someone_else", Data: other})

	assert.Equal(t, "dashboard", store.Data().ActiveTab)
}
