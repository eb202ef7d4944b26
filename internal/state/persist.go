package state

import (
	"context"
	"log"
)

// LoadPersisted restores favorites and history from the store. On failure
// the session stays empty and the error is returned for display only; it is
// never fatal. The latest history entry becomes the current location.
func (s *State) LoadPersisted() error {
	if s.store == nil {
		return nil
	}
	favorites, history, err := s.store.Load()
	if err != nil {
		log.Printf("state: load persisted state: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if dropped := s.favorites.Replace(favorites); dropped > 0 {
		log.Printf("state: dropped %d favorites over the limit of %d", dropped, MaxFavorites)
	}
	s.history.Replace(history)
	if front, ok := s.history.Front(); ok {
		s.currentLocation = front
	}
	return nil
}

// SavePersisted writes favorites and history to the store. Failures are
// logged and otherwise ignored.
func (s *State) SavePersisted() {
	if s.store == nil {
		return
	}
	s.mu.RLock()
	favorites := s.favorites.Items()
	history := s.history.Items()
	s.mu.RUnlock()

	if err := s.store.Save(favorites, history); err != nil {
		log.Printf("state: save persisted state: %v", err)
	}
}

// Resume loads weather for the latest history entry, if there is one. A
// failed load clears the current location so the user starts at search.
func (s *State) Resume(ctx context.Context) error {
	latest := s.LatestCity()
	if latest == NoHistory {
		return nil
	}
	if err := s.LoadWeatherData(ctx, latest); err != nil {
		log.Printf("state: resume %q: %v", latest, err)
		s.SetCurrentLocation("")
		return err
	}
	return nil
}
