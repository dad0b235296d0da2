//go:build ebiten

package preview

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Viewer adapts a Scene to the ebiten.Game interface.
type Viewer struct {
	scene   *Scene
	scale   int
	texture *ebiten.Image
	dirty   bool
}

// New constructs a Viewer that draws each tile as a scale×scale square.
func New(scene *Scene, scale int) *Viewer {
	if scale < 1 {
		scale = 1
	}
	return &Viewer{
		scene:   scene,
		scale:   scale,
		texture: ebiten.NewImage(scene.Size.W, scene.Size.H),
		dirty:   scene.Image() != nil,
	}
}

// Update handles key presses. Q or Esc quits and R generates a new map.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		// A failed regeneration keeps the previous map on screen.
		if err := v.scene.Regenerate(); err == nil {
			v.dirty = true
		}
	}
	return nil
}

// Draw blits the current map scaled to the window.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.dirty {
		v.texture.WritePixels(v.scene.Image().Pix)
		v.dirty = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(v.scale), float64(v.scale))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(v.texture, op)
}

// Layout returns the logical screen size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.scene.Size.W * v.scale, v.scene.Size.H * v.scale
}

// Run opens a window titled title and blocks until it is closed.
func Run(v *Viewer, title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(v.scene.Size.W*v.scale, v.scene.Size.H*v.scale)
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
