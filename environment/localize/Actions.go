package localize

import "fmt"

// Actions available to the agent. Actions 0-7 edit the bounding box
// geometrically; the trigger action (8) ends the episode, declaring
// the object localized. The deformation action names follow the
// original Active Object Localization formulation: "fatter" contracts
// the vertical edges and "taller" contracts the horizontal edges.
const (
	ActionRight int = iota // translate +x
	ActionLeft             // translate -x
	ActionUp               // translate -y
	ActionDown             // translate +y
	ActionBigger           // expand all four edges outward
	ActionSmaller          // contract all four edges inward
	ActionFatter           // contract the y edges only
	ActionTaller           // contract the x edges only
	ActionTrigger
)

// NumActions is the size of the discrete action space
const NumActions = 9

// Transform applies a geometric action to a box and returns the edited
// box, with every coordinate clamped independently into the image
// bounds. The step magnitudes are proportional to the current box
// extents: alpha * height vertically and alpha * width horizontally,
// recomputed on every call.
//
// Per-coordinate clamping preserves coordinate order, but contraction
// actions with alpha >= 0.5 can cross a box's edges and invert it;
// callers decide how to repair inverted boxes (see Box.Canonical).
//
// Transform is pure and handles geometric actions only. Passing the
// trigger action or an out-of-range action is a programmer error and
// panics; the environment validates actions before calling Transform.
func Transform(b Box, action int, alpha, width, height float64) Box {
	alphaH := alpha * b.Height()
	alphaW := alpha * b.Width()

	switch action {
	case ActionRight:
		b.XMin += alphaW
		b.XMax += alphaW
	case ActionLeft:
		b.XMin -= alphaW
		b.XMax -= alphaW
	case ActionUp:
		b.YMin -= alphaH
		b.YMax -= alphaH
	case ActionDown:
		b.YMin += alphaH
		b.YMax += alphaH
	case ActionBigger:
		b.XMin -= alphaW
		b.XMax += alphaW
		b.YMin -= alphaH
		b.YMax += alphaH
	case ActionSmaller:
		b.XMin += alphaW
		b.XMax -= alphaW
		b.YMin += alphaH
		b.YMax -= alphaH
	case ActionFatter:
		b.YMin += alphaH
		b.YMax -= alphaH
	case ActionTaller:
		b.XMin += alphaW
		b.XMax -= alphaW
	default:
		panic(fmt.Sprintf("transform: no geometric action %d", action))
	}

	return b.Clip(width, height)
}
