package gameplay

import (
	"sort"

	"github.com/solarlune/resolv"

	"chromatica/pkg/game/levelgen"
	"chromatica/pkg/game/state"
)

var (
	tagPlatform = resolv.NewTag("platform")
	tagLaser    = resolv.NewTag("laser")
)

const spaceCell = 32

// collisionWorld holds the platforms, the lasers and the player's box in a
// resolv space.
// The space extends one window height above and below the window so the
// player can jump off the top of the screen.
type collisionWorld struct {
	space     *resolv.Space
	player    resolv.IShape
	platforms map[resolv.IShape]int
	lasers    []resolv.IShape
	margin    float64
}

func newCollisionWorld(viewW, viewH int, platforms []levelgen.Platform) *collisionWorld {
	cw := &collisionWorld{
		space:     resolv.NewSpace(viewW, viewH*3, spaceCell, spaceCell),
		platforms: make(map[resolv.IShape]int, len(platforms)),
		margin:    float64(viewH),
	}
	for i, p := range platforms {
		sh := resolv.NewRectangleTopLeft(p.X, p.Y+cw.margin, p.W, p.H)
		sh.Tags().Set(tagPlatform)
		cw.space.Add(sh)
		cw.platforms[sh] = i
	}
	cw.player = resolv.NewRectangleTopLeft(0, cw.margin, state.PlayerWidth, state.PlayerHeight)
	cw.space.Add(cw.player)
	return cw
}

// overlapping returns the indices of the platforms a w x h box with its top
// left corner at (x, y) overlaps, in ascending order.
func (cw *collisionWorld) overlapping(x, y, w, h float64) []int {
	cw.player.SetPosition(x+w/2, y+h/2+cw.margin)

	var hits []int
	cw.player.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: cw.player.SelectTouchingCells(1).FilterShapes().ByTags(tagPlatform),
		OnIntersect: func(set resolv.IntersectionSet) bool {
			if i, ok := cw.platforms[set.OtherShape]; ok {
				hits = append(hits, i)
			}
			return true
		},
	})
	sort.Ints(hits)
	return hits
}

// addLasers puts a shape for each laser into the space. Call moveLasers with
// the same slice to keep them in step.
func (cw *collisionWorld) addLasers(lasers []levelgen.Laser) {
	for _, l := range lasers {
		sh := resolv.NewRectangleTopLeft(l.X, l.Y+cw.margin, l.W, l.H)
		sh.Tags().Set(tagLaser)
		cw.space.Add(sh)
		cw.lasers = append(cw.lasers, sh)
	}
}

// moveLasers moves the laser shapes to the lasers' current positions.
func (cw *collisionWorld) moveLasers(lasers []levelgen.Laser) {
	for i, l := range lasers {
		if i < len(cw.lasers) {
			cw.lasers[i].SetPosition(l.X+l.W/2, l.Y+l.H/2+cw.margin)
		}
	}
}

// hitsLaser reports whether a w x h box with its top left corner at (x, y)
// touches any laser.
func (cw *collisionWorld) hitsLaser(x, y, w, h float64) bool {
	if len(cw.lasers) == 0 {
		return false
	}
	cw.player.SetPosition(x+w/2, y+h/2+cw.margin)

	hit := false
	cw.player.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: cw.player.SelectTouchingCells(1).FilterShapes().ByTags(tagLaser),
		OnIntersect: func(set resolv.IntersectionSet) bool {
			hit = true
			return false
		},
	})
	return hit
}
