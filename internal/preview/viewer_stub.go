//go:build !ebiten

package preview

import "errors"

// ErrNoGUI is returned by Run in builds without the ebiten tag.
var ErrNoGUI = errors.New("preview requires building with the 'ebiten' tag")

// Viewer is a placeholder for the GUI build.
type Viewer struct {
	scene *Scene
}

// New returns a Viewer that cannot be shown.
func New(scene *Scene, scale int) *Viewer { return &Viewer{scene: scene} }

// Run always fails in the headless build.
func Run(*Viewer, string) error { return ErrNoGUI }
