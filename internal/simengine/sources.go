package simengine

import (
	"errors"
	"fmt"

	"github.com/prsauer/wow-recorder/internal/engine"
)

// simSource implements engine.Source over the engine's shared state.
type simSource struct {
	eng      *Engine
	name     string
	kind     string
	settings map[string]interface{}
	muted    bool
	mixers   uint64
	size     engine.Size
	released bool
}

// simScene implements engine.Scene.
type simScene struct {
	eng      *Engine
	name     string
	items    []*simSceneItem
	released bool
}

// simSceneItem implements engine.SceneItem.
type simSceneItem struct {
	eng   *Engine
	scene *simScene
	src   engine.Source
	scale engine.Vec2
}

func (e *Engine) CreateSource(kind, name string, settings map[string]interface{}) (engine.Source, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, errors.New("engine not initialized")
	}
	if _, exists := e.sources[name]; exists {
		return nil, fmt.Errorf("source %q already exists", name)
	}

	src := &simSource{
		eng:      e,
		name:     name,
		kind:     kind,
		settings: make(map[string]interface{}, len(settings)),
	}
	for key, value := range settings {
		src.settings[key] = value
	}

	// A monitor capture delivers frames immediately at the display's
	// size; a window capture reports 0x0 until the window appears.
	if kind == engine.KindMonitorCapture {
		if idx, ok := settings["monitor"].(int); ok && idx >= 0 && idx < len(e.displays) {
			src.size = e.displays[idx].Size
		}
	}

	e.sources[name] = src
	return src, nil
}

func (e *Engine) CreateScene(name string) (engine.Scene, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, errors.New("engine not initialized")
	}
	if _, exists := e.scenes[name]; exists {
		return nil, fmt.Errorf("scene %q already exists", name)
	}
	scene := &simScene{eng: e, name: name}
	e.scenes[name] = scene
	return scene, nil
}

func (e *Engine) SetOutputSource(slot int, src engine.OutputSource) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if slot < 1 || slot > engine.MaxOutputSlots {
		return fmt.Errorf("output slot %d out of range", slot)
	}
	if src == nil {
		delete(e.slots, slot)
		return nil
	}
	e.slots[slot] = src
	return nil
}

func (e *Engine) GetOutputSource(slot int) engine.OutputSource {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slots[slot]
}

func (s *simSource) Name() string { return s.name }
func (s *simSource) Kind() string { return s.kind }

func (s *simSource) Settings() map[string]interface{} {
	s.eng.mu.Lock()
	defer s.eng.mu.Unlock()
	out := make(map[string]interface{}, len(s.settings))
	for key, value := range s.settings {
		out[key] = value
	}
	return out
}

func (s *simSource) UpdateSettings(settings map[string]interface{}) error {
	s.eng.mu.Lock()
	defer s.eng.mu.Unlock()
	if s.released {
		return fmt.Errorf("source %q released", s.name)
	}
	for key, value := range settings {
		s.settings[key] = value
	}
	return nil
}

func (s *simSource) SetMuted(muted bool) error {
	s.eng.mu.Lock()
	defer s.eng.mu.Unlock()
	if s.released {
		return fmt.Errorf("source %q released", s.name)
	}
	s.muted = muted
	return nil
}

func (s *simSource) SetAudioMixers(mask uint64) error {
	s.eng.mu.Lock()
	defer s.eng.mu.Unlock()
	if s.released {
		return fmt.Errorf("source %q released", s.name)
	}
	s.mixers = mask
	return nil
}

func (s *simSource) Size() engine.Size {
	s.eng.mu.Lock()
	defer s.eng.mu.Unlock()
	return s.size
}

func (s *simSource) Release() error {
	s.eng.mu.Lock()
	defer s.eng.mu.Unlock()
	if s.released {
		return fmt.Errorf("source %q already released", s.name)
	}
	s.released = true
	delete(s.eng.sources, s.name)
	return nil
}

// Muted reports the source's mute flag, for assertions.
func (s *simSource) Muted() bool {
	s.eng.mu.Lock()
	defer s.eng.mu.Unlock()
	return s.muted
}

// Mixers reports the source's track routing mask, for assertions.
func (s *simSource) Mixers() uint64 {
	s.eng.mu.Lock()
	defer s.eng.mu.Unlock()
	return s.mixers
}

func (sc *simScene) Name() string { return sc.name }

func (sc *simScene) Add(src engine.Source) (engine.SceneItem, error) {
	sc.eng.mu.Lock()
	defer sc.eng.mu.Unlock()
	if sc.released {
		return nil, fmt.Errorf("scene %q released", sc.name)
	}
	item := &simSceneItem{eng: sc.eng, scene: sc, src: src, scale: engine.Vec2{X: 1, Y: 1}}
	sc.items = append(sc.items, item)
	return item, nil
}

func (sc *simScene) Items() []engine.SceneItem {
	sc.eng.mu.Lock()
	defer sc.eng.mu.Unlock()
	items := make([]engine.SceneItem, len(sc.items))
	for i, item := range sc.items {
		items[i] = item
	}
	return items
}

func (sc *simScene) Release() error {
	sc.eng.mu.Lock()
	defer sc.eng.mu.Unlock()
	if sc.released {
		return fmt.Errorf("scene %q already released", sc.name)
	}
	sc.released = true
	sc.items = nil
	delete(sc.eng.scenes, sc.name)
	return nil
}

func (it *simSceneItem) Source() engine.Source { return it.src }

func (it *simSceneItem) Scale() engine.Vec2 {
	it.eng.mu.Lock()
	defer it.eng.mu.Unlock()
	return it.scale
}

func (it *simSceneItem) SetScale(scale engine.Vec2) error {
	it.eng.mu.Lock()
	defer it.eng.mu.Unlock()
	if it.scene.released {
		return fmt.Errorf("scene %q released", it.scene.name)
	}
	it.scale = scale
	return nil
}
