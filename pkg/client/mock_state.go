package client

import (
	"sync"
	"time"
)

// MockState is an in-memory test implementation of StateInterface
type MockState struct {
	mu sync.RWMutex

	// In-memory storage
	config map[string]string
	speeds map[string]time.Duration
	dir    string

	// Error injection
	getConfigErr error
	setConfigErr error
	setSpeedErr  error
}

// NewMockState creates a new mock state
func NewMockState() *MockState {
	return &MockState{
		config: make(map[string]string),
		speeds: make(map[string]time.Duration),
		dir:    "/tmp/mock-state",
	}
}

// GetConfig retrieves a configuration value
func (s *MockState) GetConfig(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getConfigErr != nil {
		return "", s.getConfigErr
	}

	return s.config[key], nil
}

// SetConfig stores a configuration value
func (s *MockState) SetConfig(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setConfigErr != nil {
		return s.setConfigErr
	}

	s.config[key] = value
	return nil
}

func (s *MockState) GetSpeed(name string) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.speeds[name]
	return d, ok
}

func (s *MockState) SetSpeed(name string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setSpeedErr != nil {
		return s.setSpeedErr
	}
	s.speeds[name] = d
	return nil
}

func (s *MockState) GetLastServerForm() ServerForm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ServerForm{
		Server:  s.config["last_server"],
		Port:    s.config["last_port"],
		Profile: s.config["last_profile"],
	}
}

func (s *MockState) SetLastServerForm(form ServerForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setConfigErr != nil {
		return s.setConfigErr
	}
	s.config["last_server"] = form.Server
	s.config["last_port"] = form.Port
	s.config["last_profile"] = form.Profile
	return nil
}

// GetStateDir returns the mock state directory
func (s *MockState) GetStateDir() string {
	return s.dir
}

// Close does nothing for mock state
func (s *MockState) Close() error {
	return nil
}

// Test helper methods

// SetGetConfigError sets an error to return from GetConfig()
func (s *MockState) SetGetConfigError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getConfigErr = err
}

// SetSetConfigError sets an error to return from SetConfig() and SetLastServerForm()
func (s *MockState) SetSetConfigError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setConfigErr = err
}

// SetSetSpeedError sets an error to return from SetSpeed()
func (s *MockState) SetSetSpeedError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSpeedErr = err
}

// GetAllConfig returns a copy of all config values (for testing)
func (s *MockState) GetAllConfig() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string, len(s.config))
	for k, v := range s.config {
		result[k] = v
	}
	return result
}
