package input

import (
	"fmt"
	"sort"
	"strings"
)

// Command is an editor action triggered by a key binding.
type Command int

const (
	CommandNone Command = iota
	CommandExit
	CommandToggleFreeLook
	CommandMoveForward
	CommandMoveBack
	CommandStrafeLeft
	CommandStrafeRight
	CommandPrintPosition
	CommandOpenModel
	CommandScreenshot
)

var commandNames = [...]string{
	CommandNone:           "none",
	CommandExit:           "exit",
	CommandToggleFreeLook: "toggle_free_look",
	CommandMoveForward:    "move_forward",
	CommandMoveBack:       "move_back",
	CommandStrafeLeft:     "strafe_left",
	CommandStrafeRight:    "strafe_right",
	CommandPrintPosition:  "print_position",
	CommandOpenModel:      "open_model",
	CommandScreenshot:     "screenshot",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// IsMovement reports whether the command moves the camera.
func (c Command) IsMovement() bool {
	switch c {
	case CommandMoveForward, CommandMoveBack, CommandStrafeLeft, CommandStrafeRight:
		return true
	}
	return false
}

// ParseCommand looks up a command by name.
func ParseCommand(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range commandNames {
		if n == name {
			return Command(i), true
		}
	}
	return CommandNone, false
}

// Binding is a key together with the action that triggers a command.
type Binding struct {
	Key    Key
	Action Action
}

func (b Binding) String() string {
	return b.Key.String() + "/" + b.Action.String()
}

// ParseBinding parses "key/action", e.g. "w/hold". A bare key name
// means the press action.
func ParseBinding(s string) (Binding, error) {
	keyName, actionName, found := strings.Cut(s, "/")
	key, ok := ParseKey(keyName)
	if !ok {
		return Binding{}, fmt.Errorf("unknown key %q in binding %q", keyName, s)
	}
	action := ActionPress
	if found {
		action, ok = ParseAction(strings.ToLower(strings.TrimSpace(actionName)))
		if !ok {
			return Binding{}, fmt.Errorf("unknown action %q in binding %q", actionName, s)
		}
	}
	return Binding{Key: key, Action: action}, nil
}

// Mapper resolves key actions to commands.
type Mapper struct {
	bindings map[Binding]Command
}

// NewMapper creates an empty mapper.
func NewMapper() *Mapper {
	return &Mapper{bindings: make(map[Binding]Command)}
}

// DefaultBindings returns the built-in key map.
func DefaultBindings() map[Binding]Command {
	return map[Binding]Command{
		{KeyEscape, ActionPress}: CommandExit,
		{KeyZ, ActionPress}:      CommandToggleFreeLook,
		{KeyW, ActionHold}:       CommandMoveForward,
		{KeyS, ActionHold}:       CommandMoveBack,
		{KeyA, ActionHold}:       CommandStrafeLeft,
		{KeyD, ActionHold}:       CommandStrafeRight,
		{KeyP, ActionPress}:      CommandPrintPosition,
		{KeyO, ActionPress}:      CommandOpenModel,
		{KeyF12, ActionPress}:    CommandScreenshot,
	}
}

// NewDefaultMapper creates a mapper with the built-in key map.
func NewDefaultMapper() *Mapper {
	m := NewMapper()
	for b, c := range DefaultBindings() {
		m.Bind(b.Key, b.Action, c)
	}
	return m
}

// Bind maps a key action to a command. A later Bind for the same key
// and action replaces the earlier one. Binding CommandNone unbinds.
func (m *Mapper) Bind(k Key, a Action, c Command) {
	b := Binding{Key: k, Action: a}
	if c == CommandNone {
		delete(m.bindings, b)
		return
	}
	m.bindings[b] = c
}

// Resolve returns the command bound to a key action, or CommandNone.
func (m *Mapper) Resolve(k Key, a Action) Command {
	return m.bindings[Binding{Key: k, Action: a}]
}

// Len returns the number of bindings.
func (m *Mapper) Len() int {
	return len(m.bindings)
}

// ParseBindings applies "key/action" -> command name overrides on top of
// the mapper's current bindings. Entries are applied in sorted order, and
// two entries that name the same binding after normalization ("W/hold"
// and "w/hold") are rejected.
func (m *Mapper) ParseBindings(entries map[string]string) error {
	specs := make([]string, 0, len(entries))
	for spec := range entries {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	seen := make(map[Binding]string, len(specs))
	for _, spec := range specs {
		b, err := ParseBinding(spec)
		if err != nil {
			return err
		}
		if prev, dup := seen[b]; dup {
			return fmt.Errorf("bindings %q and %q name the same key action", prev, spec)
		}
		seen[b] = spec

		name := entries[spec]
		c, ok := ParseCommand(name)
		if !ok {
			return fmt.Errorf("unknown command %q for binding %q", name, spec)
		}
		m.Bind(b.Key, b.Action, c)
	}
	return nil
}
