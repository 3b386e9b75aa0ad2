package report

import "sync"

// MemStore keeps the most recent reports in memory and delegates to a
// backing Store on miss. It bounds memory by evicting the least
// recently used entry once capacity is exceeded.
type MemStore struct {
	mu    sync.Mutex
	cap   int
	back  Store
	items map[string]*RunReport
	order []string // least recently used first
}

// NewMemStore creates a cache with the given capacity that delegates
// to back on cache misses. Capacity must be >= 1.
func NewMemStore(cap int, back Store) *MemStore {
	if cap < 1 {
		cap = 1
	}
	return &MemStore{
		cap:   cap,
		back:  back,
		items: make(map[string]*RunReport, cap),
	}
}

// Save caches the report and delegates to the backing store.
func (s *MemStore) Save(report *RunReport) error {
	s.mu.Lock()
	s.insert(report)
	s.mu.Unlock()

	return s.back.Save(report)
}

// Load checks the cache first. On miss, loads from the backing store
// and promotes the report into the cache.
func (s *MemStore) Load(runID string) (*RunReport, error) {
	s.mu.Lock()
	if r, ok := s.items[runID]; ok {
		s.touch(runID)
		s.mu.Unlock()
		return r, nil
	}
	s.mu.Unlock()

	report, err := s.back.Load(runID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.insert(report)
	s.mu.Unlock()
	return report, nil
}

// insert adds or refreshes an entry, evicting the oldest when full.
// Callers must hold mu.
func (s *MemStore) insert(report *RunReport) {
	if _, ok := s.items[report.ID]; ok {
		s.items[report.ID] = report
		s.touch(report.ID)
		return
	}
	s.items[report.ID] = report
	s.order = append(s.order, report.ID)
	if len(s.items) > s.cap {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.items, oldest)
	}
}

// touch moves runID to the most recently used position.
// Callers must hold mu.
func (s *MemStore) touch(runID string) {
	for i, id := range s.order {
		if id == runID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			s.order = append(s.order, runID)
			return
		}
	}
}
