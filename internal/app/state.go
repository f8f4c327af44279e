// Package app provides application state, events, and background processing.
package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"scan-cleaner/internal/history"
	"scan-cleaner/internal/image"
	"scan-cleaner/internal/project"
	"scan-cleaner/internal/stain"

	"github.com/rs/zerolog"
)

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventParamsChanged
	EventWhitelistChanged
	EventProcessingDone
	EventProjectLoaded
	EventProjectSaved
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the loaded scan, the detection
// parameters, the manual whitelist with its history, and the most
// recent processing result.
type State struct {
	mu sync.RWMutex

	ProjectPath string
	Modified    bool

	Layer     *image.Layer
	Params    stain.Params
	Whitelist *stain.Mask
	History   *history.History
	Result    *stain.Result

	log       zerolog.Logger
	listeners map[EventType][]EventListener
}

// NewState creates a new application state with default parameters.
func NewState(log zerolog.Logger) *State {
	return &State{
		Params:    stain.DefaultParams(),
		log:       log,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadImage loads a scan, resets the whitelist and its history, and
// discards any previous result.
func (s *State) LoadImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Layer = layer
	s.Whitelist = stain.NewMask(layer.Width(), layer.Height())
	s.History = history.New(s.Whitelist)
	s.Result = nil
	s.mu.Unlock()

	s.log.Info().
		Str("path", path).
		Int("width", layer.Width()).
		Int("height", layer.Height()).
		Float64("dpi", layer.DPI).
		Msg("image loaded")

	s.Emit(EventImageLoaded, layer)
	s.SetModified(true)
	return nil
}

// SetParams replaces the detection parameters.
func (s *State) SetParams(p stain.Params) {
	s.mu.Lock()
	s.Params = p
	s.mu.Unlock()
	s.Emit(EventParamsChanged, p)
	s.SetModified(true)
}

// GetParams returns the current detection parameters.
func (s *State) GetParams() stain.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Params
}

// PaintWhitelist stamps a protective brush circle into the whitelist
// mask and records a history snapshot.
func (s *State) PaintWhitelist(cx, cy, radius int) {
	s.mu.Lock()
	if s.Whitelist == nil {
		s.mu.Unlock()
		return
	}
	s.Whitelist.StampCircle(cx, cy, radius)
	s.History.Push(s.Whitelist)
	s.mu.Unlock()

	s.Emit(EventWhitelistChanged, nil)
	s.SetModified(true)
}

// UndoWhitelist restores the previous whitelist snapshot.
func (s *State) UndoWhitelist() bool {
	s.mu.Lock()
	if s.History == nil || !s.History.Undo() {
		s.mu.Unlock()
		return false
	}
	s.Whitelist = s.History.Current()
	s.mu.Unlock()

	s.Emit(EventWhitelistChanged, nil)
	return true
}

// RedoWhitelist restores the next whitelist snapshot.
func (s *State) RedoWhitelist() bool {
	s.mu.Lock()
	if s.History == nil || !s.History.Redo() {
		s.mu.Unlock()
		return false
	}
	s.Whitelist = s.History.Current()
	s.mu.Unlock()

	s.Emit(EventWhitelistChanged, nil)
	return true
}

// WhitelistCopy returns an independent copy of the current whitelist,
// or nil when no image is loaded.
func (s *State) WhitelistCopy() *stain.Mask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Whitelist == nil {
		return nil
	}
	return s.Whitelist.Clone()
}

// Logger returns the state's logger for collaborators that report
// through the same sink.
func (s *State) Logger() zerolog.Logger {
	return s.log
}

// CurrentResult returns the most recent processing result, or nil if
// the pipeline has not run yet.
func (s *State) CurrentResult() *stain.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Result
}

// SetResult stores a completed processing result.
func (s *State) SetResult(res *stain.Result) {
	s.mu.Lock()
	s.Result = res
	s.mu.Unlock()
	s.Emit(EventProcessingDone, res)
}

// LoadProject restores image, parameters, and whitelist from a
// .scanproj file.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	if imgPath := proj.ResolveImage(path); imgPath != "" {
		if err := s.LoadImage(imgPath); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Params = proj.Params
	if proj.Whitelist != nil && s.Layer != nil {
		mask, err := proj.Whitelist.Decode()
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to decode whitelist: %w", err)
		}
		if err := mask.CheckDimensions(s.Layer.Width(), s.Layer.Height()); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("project whitelist: %w", err)
		}
		s.Whitelist = mask
		s.History = history.New(mask)
	}
	s.Modified = false
	s.mu.Unlock()

	s.log.Info().Str("path", path).Msg("project loaded")
	s.Emit(EventProjectLoaded, proj)
	return nil
}

// SaveProject writes the current session to a .scanproj file.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	proj := project.New(s.projectName(path))
	proj.Params = s.Params
	proj.Whitelist = project.EncodeMask(s.Whitelist)
	if s.Layer != nil {
		proj.SetImage(path, s.Layer.Path)
	}
	s.mu.RUnlock()

	if err := proj.Save(path); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.log.Info().Str("path", path).Msg("project saved")
	s.Emit(EventProjectSaved, path)
	return nil
}

func (s *State) projectName(path string) string {
	if s.ProjectPath != "" {
		path = s.ProjectPath
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
