package common

import "errors"

var ErrModulePaused = errors.New("module paused")

// PauseView answers whether a native module is administratively paused.
type PauseView interface {
	IsPaused(module string) bool
}

// PauseSet is a static PauseView built from configuration.
type PauseSet map[string]bool

func (s PauseSet) IsPaused(module string) bool { return s[module] }

// Guard rejects the operation when the module is paused. A nil view or empty
// module name always passes.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
