package bauble

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayRefresh is how often, in seconds, the overlay text is rebuilt.
const overlayRefresh = 0.5

var (
	overlayViews = []ViewType{ViewNormal, ViewDebugSteps, ViewDebugSurfaceDistance}
	overlayLoops = []LoopMode{LoopNone, LoopWrap, LoopReverse}
)

// overlay is the on-screen debug panel: FPS/TPS, the choice controls and the
// session summary. It is rebuilt every ~0.5 seconds and drawn on top of the
// scaled canvas.
type overlay struct {
	img     *ebiten.Image
	since   float64
	text    string
	choices string
	watch   *Effect
}

func newOverlay(s *Session) *overlay {
	o := &overlay{
		// 480x96 is enough for five lines of debug text.
		img:   ebiten.NewImage(480, 96),
		since: overlayRefresh,
	}
	// Tracked: re-runs only when a selected choice changes.
	o.watch = s.Graph().Effect(func() {
		o.choices = radioLine(s.Views, overlayViews) + "  " + radioLine(s.LoopModes, overlayLoops)
	})
	return o
}

// radioLine renders choices as "(*) a ( ) b ( ) c".
func radioLine[T interface {
	comparable
	fmt.Stringer
}](sel *Selector[T], choices []T) string {
	var b strings.Builder
	for i, c := range choices {
		if i > 0 {
			b.WriteByte(' ')
		}
		if sel.IsSelected(c) {
			b.WriteString("(*) ")
		} else {
			b.WriteString("( ) ")
		}
		b.WriteString(c.String())
	}
	return b.String()
}

func (o *overlay) update(dt float64, s *Session) {
	o.since += dt
	if o.since < overlayRefresh {
		return
	}
	o.since = 0
	o.text = fmt.Sprintf("FPS: %.1f TPS: %.1f\n%s\n%s",
		ebiten.ActualFPS(), ebiten.ActualTPS(), o.choices, s.debugSummary())

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

func (o *overlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
