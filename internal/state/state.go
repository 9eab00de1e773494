package state

import "sync"

type NetworkInfo struct {
	IP  string
	URL string
}

type State struct {
	Vehicle VehicleConfig `json:"vehicle"`
	Status  VehicleStatus `json:"status"`
	Gauges  Gauges        `json:"gauges"`
	Network NetworkInfo   `json:"-"`
	// Seq increases on every update.
	Seq uint64 `json:"seq"`
}

type Store struct {
	mu    sync.RWMutex
	state State
	subs  map[chan struct{}]struct{}
}

func NewStore() *Store {
	return &Store{
		state: State{Vehicle: DefaultVehicleConfig(), Status: DefaultVehicleStatus()},
		subs:  map[chan struct{}]struct{}{},
	}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetVehicle(cfg VehicleConfig) {
	store.update(func(s *State) { s.Vehicle = cfg })
}

func (store *Store) SetStatus(status VehicleStatus) {
	store.update(func(s *State) { s.Status = status })
}

func (store *Store) SetGauges(gauges Gauges) {
	store.update(func(s *State) { s.Gauges = gauges })
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.update(func(s *State) { s.Network = network })
}

func (store *Store) update(fn func(*State)) {
	store.mu.Lock()
	fn(&store.state)
	store.state.Seq++
	for ch := range store.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	store.mu.Unlock()
}

// Subscribe returns a channel that receives a signal after updates. Signals
// coalesce: a slow reader sees one pending signal, then reads Snapshot.
// The returned func unsubscribes.
func (store *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	store.mu.Lock()
	store.subs[ch] = struct{}{}
	store.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			store.mu.Lock()
			delete(store.subs, ch)
			store.mu.Unlock()
		})
	}
}
