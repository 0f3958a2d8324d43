package services

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/open-teleop/headtrack/pkg/config"
	customlog "github.com/open-teleop/headtrack/pkg/log"
	"github.com/open-teleop/headtrack/pkg/pose"
)

// TuningPublisher announces tuning updates to other processes.
type TuningPublisher interface {
	PublishTuningUpdatedNotification(t config.Tuning) error
}

// ParamsApplier receives the encoder parameters whenever tuning changes.
type ParamsApplier interface {
	ApplyParams(p pose.Params)
}

// TuningService manages the operational tuning document.
type TuningService interface {
	Load() error
	Current() config.Tuning
	CurrentYAML() ([]byte, error)
	Update(newTuningYAML []byte) error
	SetPublisher(p TuningPublisher)
	AddApplier(a ParamsApplier)
}

type tuningService struct {
	tuningPath string
	logger     customlog.Logger
	publisher  TuningPublisher
	appliers   []ParamsApplier
	current    config.Tuning
	mu         sync.RWMutex
}

// NewTuningService creates a TuningService backed by tuningPath. The service
// starts with default tuning; call Load to read the file.
func NewTuningService(tuningPath string, logger customlog.Logger) (TuningService, error) {
	if tuningPath == "" {
		return nil, fmt.Errorf("tuning path cannot be empty")
	}
	return &tuningService{
		tuningPath: tuningPath,
		logger:     logger,
		current:    *config.DefaultTuning(),
	}, nil
}

// Load reads the tuning file and applies it. A missing file keeps the
// defaults and logs a warning.
func (s *tuningService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Infof("Loading tuning from: %s", s.tuningPath)
	tuning, err := config.LoadTuning(s.tuningPath)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warnf("Tuning file '%s' not found, using defaults", s.tuningPath)
		s.current = *config.DefaultTuning()
		s.applyUnlocked()
		return nil
	}
	if err != nil {
		s.logger.Errorf("Failed to load tuning: %v", err)
		return err
	}

	s.current = *tuning
	s.applyUnlocked()
	s.logger.Infof("Loaded tuning version %s", tuning.Version)
	return nil
}

// Current returns a copy of the active tuning.
func (s *tuningService) Current() config.Tuning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentYAML returns the tuning file as stored on disk, or the active
// tuning rendered as YAML when no file exists yet.
func (s *tuningService) CurrentYAML() ([]byte, error) {
	s.mu.RLock()
	path := s.tuningPath
	current := s.current
	s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return current.Marshal()
	}
	if err != nil {
		s.logger.Errorf("Error reading tuning file '%s' for YAML export: %v", path, err)
		return nil, fmt.Errorf("error reading tuning file '%s': %w", path, err)
	}
	return data, nil
}

// Update validates, persists and applies new tuning, then publishes a
// notification in the background.
func (s *tuningService) Update(newTuningYAML []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tuning, err := config.ParseTuning(newTuningYAML)
	if err != nil {
		s.logger.Errorf("Rejected tuning update: %v", err)
		return err
	}

	// Persist before applying so a failed write leaves the old tuning active.
	if err := config.WriteFile(s.tuningPath, newTuningYAML); err != nil {
		s.logger.Errorf("Failed to persist tuning: %v", err)
		return err
	}

	oldVersion := s.current.Version
	s.current = *tuning
	s.applyUnlocked()
	s.logger.Infof("Updated tuning. Version %s -> %s", oldVersion, tuning.Version)

	if s.publisher != nil {
		go func(publisher TuningPublisher, t config.Tuning) {
			if err := publisher.PublishTuningUpdatedNotification(t); err != nil {
				s.logger.Warnf("Failed to publish tuning update notification: %v", err)
			} else {
				s.logger.Debugf("Published tuning update notification")
			}
		}(s.publisher, s.current)
	}
	return nil
}

// SetPublisher allows injecting the TuningPublisher after initialization.
func (s *tuningService) SetPublisher(p TuningPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

// AddApplier registers a consumer and hands it the active parameters.
func (s *tuningService) AddApplier(a ParamsApplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appliers = append(s.appliers, a)
	a.ApplyParams(s.current.Params())
}

func (s *tuningService) applyUnlocked() {
	params := s.current.Params()
	for _, a := range s.appliers {
		a.ApplyParams(params)
	}
}
