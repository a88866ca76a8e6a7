package search

import "sync"

type Snapshot struct {
	URL  string
	Term string
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Store holds the current location. Set is the only way to change the term;
// Navigate records location changes that happen for other reasons.
type Store struct {
	mu   sync.RWMutex
	url  string
	subs []subscriber
	next int
}

func NewStore(initialURL string) *Store {
	if initialURL == "" {
		initialURL = "/"
	}
	return &Store{url: initialURL}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{URL: s.url, Term: Term(s.url)}
}

func (s *Store) URL() string  { return s.Snapshot().URL }
func (s *Store) Term() string { return s.Snapshot().Term }

// Set writes term, optionally moving to target, and notifies subscribers.
func (s *Store) Set(term, target string) (Navigation, error) {
	s.mu.Lock()
	nav, err := Apply(s.url, term, target)
	if err != nil {
		s.mu.Unlock()
		return Navigation{}, err
	}
	s.url = nav.URL
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nav, nil
}

// Navigate moves to url, e.g. after following a link or going back.
func (s *Store) Navigate(url string) {
	s.mu.Lock()
	s.url = url
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// Subscribe registers fn for every subsequent change and returns a cancel func.
// fn runs on the writer's goroutine, in subscription order, outside the lock.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) snapshotLocked() (Snapshot, []subscriber) {
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	return Snapshot{URL: s.url, Term: Term(s.url)}, subs
}

func notify(subs []subscriber, snap Snapshot) {
	for _, sub := range subs {
		sub.fn(snap)
	}
}
