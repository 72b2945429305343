// Package input turns backend window events into key actions and
// resolves them to editor commands.
package input

import "sort"

// EventType identifies the kind of an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKey
	EventMouseMove
)

// Action is the transition a key went through.
type Action int

const (
	ActionPress Action = iota
	ActionRepeat
	ActionRelease
	// ActionHold is synthesised once per frame for every key that is down.
	ActionHold
)

var actionNames = [...]string{
	ActionPress:   "press",
	ActionRepeat:  "repeat",
	ActionRelease: "release",
	ActionHold:    "hold",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction looks up an action by name.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Action Action
	Width  int
	Height int
	MouseX int
	MouseY int
}

// Input accumulates the events of one frame and tracks which keys are down.
type Input struct {
	events []Event
	held   map[Key]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[Key]bool),
	}
}

// Begin clears the previous frame's events. Held keys carry over.
func (i *Input) Begin() {
	i.events = i.events[:0]
}

// Push records an event. Backends call it while polling.
func (i *Input) Push(e Event) {
	if e.Type == EventKey {
		switch e.Action {
		case ActionPress, ActionRepeat:
			i.held[e.Key] = true
		case ActionRelease:
			delete(i.held, e.Key)
		}
	}
	i.events = append(i.events, e)
}

// Events returns the events pushed since the last Begin.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyDown reports whether a key is currently held.
func (i *Input) IsKeyDown(k Key) bool {
	return i.held[k]
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(k Key) bool {
	for _, e := range i.events {
		if e.Type == EventKey && e.Action == ActionPress && e.Key == k {
			return true
		}
	}
	return false
}

// Held returns the held keys in ascending order so that the commands
// they trigger dispatch deterministically.
func (i *Input) Held() []Key {
	keys := make([]Key, 0, len(i.held))
	for k := range i.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
	return keys
}

// ReleaseAll forgets every held key, e.g. when the window loses focus.
func (i *Input) ReleaseAll() {
	clear(i.held)
}
