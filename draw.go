package ducttape

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ducttape-dev/ducttape/physics"
)

// DebugSceneManager draws a top-down view of a scene: every node as a small
// square at its scene X/Z position, physics objects as outlines of their
// bounds, and an FPS/TPS readout in the corner. The view is centered on the
// scene origin.
type DebugSceneManager struct {
	// PixelsPerUnit is the zoom factor. Zero means 16.
	PixelsPerUnit float64
	// Background clears the screen before drawing when its alpha is non-zero.
	Background color.RGBA
}

var (
	debugNodeColor    = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	debugBodyColor    = color.RGBA{0x40, 0xa0, 0xff, 0xff}
	debugGhostColor   = color.RGBA{0xff, 0xc0, 0x40, 0xff}
	debugDynamicColor = color.RGBA{0x60, 0xff, 0x60, 0xff}
)

// Draw implements SceneManager.
func (m *DebugSceneManager) Draw(screen *ebiten.Image, s *Scene) {
	if m.Background.A != 0 {
		screen.Fill(m.Background)
	}
	ppu := m.PixelsPerUnit
	if ppu == 0 {
		ppu = 16
	}
	b := screen.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	project := func(x, z float64) (float32, float32) {
		return float32(cx + x*ppu), float32(cy + z*ppu)
	}

	for _, o := range s.PhysicsWorld().Objects() {
		clr := debugBodyColor
		switch {
		case o.Ghost:
			clr = debugGhostColor
		case o.Type == physics.Dynamic:
			clr = debugDynamicColor
		}
		ext := o.Shape.Extents()
		x, y := project(o.Position.X()-ext.X(), o.Position.Z()-ext.Z())
		vector.StrokeRect(screen, x, y, float32(2*ext.X()*ppu), float32(2*ext.Z()*ppu), 1, clr, false)
	}

	count := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Children() {
			if !child.IsActive() {
				continue
			}
			count++
			p := child.Position(RelativeToScene)
			x, y := project(p.X(), p.Z())
			vector.DrawFilledRect(screen, x-2, y-2, 4, 4, debugNodeColor, false)
			walk(child)
		}
	}
	walk(s.Node)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nFPS: %.1f\nTPS: %.1f\nnodes: %d  bodies: %d",
		s.Name(), ebiten.ActualFPS(), ebiten.ActualTPS(), count, s.PhysicsWorld().Len()))
}
