package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/aeolun/ircweb/pkg/client"
)

// SpeedStatus is the refresh interval of the status dialog.
const SpeedStatus = "status"

const defaultSpeed = 1000 * time.Millisecond

// SpeedChoices are the intervals offered to the user.
var SpeedChoices = []time.Duration{
	500 * time.Millisecond,
	1000 * time.Millisecond,
	2000 * time.Millisecond,
	5000 * time.Millisecond,
	10000 * time.Millisecond,
}

// Speeds holds per-subsystem refresh intervals.
type Speeds struct {
	mu     sync.RWMutex
	values map[string]time.Duration
	state  client.StateInterface
}

// LoadSpeeds returns the defaults overlaid with values persisted in state.
// state may be nil.
func LoadSpeeds(state client.StateInterface) *Speeds {
	sp := &Speeds{
		values: map[string]time.Duration{SpeedStatus: defaultSpeed},
		state:  state,
	}
	if state != nil {
		for name := range sp.values {
			if d, ok := state.GetSpeed(name); ok {
				sp.values[name] = d
			}
		}
	}
	return sp
}

// Get returns the interval for name, or the default for unknown names.
func (sp *Speeds) Get(name string) time.Duration {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	if d, ok := sp.values[name]; ok {
		return d
	}
	return defaultSpeed
}

// Set changes and persists the interval for name.
func (sp *Speeds) Set(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("speed %s: interval must be positive, got %v", name, d)
	}
	sp.mu.Lock()
	sp.values[name] = d
	sp.mu.Unlock()

	if sp.state != nil {
		if err := sp.state.SetSpeed(name, d); err != nil {
			return fmt.Errorf("persist speed %s: %w", name, err)
		}
	}
	return nil
}
