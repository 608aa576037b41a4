package stagehand

import (
	"fmt"
	"sort"
	"strings"
)

// Attr names a numeric node property a Transition can animate.
type Attr uint8

const (
	AttrX Attr = iota
	AttrY
	AttrWidth
	AttrHeight
	AttrScaleX
	AttrScaleY
	AttrRotation
	AttrOpacity
	AttrOriginX
	AttrOriginY
)

var attrNames = [...]string{
	AttrX:        "x",
	AttrY:        "y",
	AttrWidth:    "width",
	AttrHeight:   "height",
	AttrScaleX:   "scaleX",
	AttrScaleY:   "scaleY",
	AttrRotation: "rotation",
	AttrOpacity:  "opacity",
	AttrOriginX:  "originX",
	AttrOriginY:  "originY",
}

func (a Attr) String() string {
	if int(a) < len(attrNames) {
		return attrNames[a]
	}
	return fmt.Sprintf("Attr(%d)", a)
}

// ParseAttr resolves an attribute name, case-insensitively.
func ParseAttr(s string) (Attr, error) {
	for i, name := range attrNames {
		if strings.EqualFold(name, s) {
			return Attr(i), nil
		}
	}
	return 0, fmt.Errorf("stagehand: attribute %q: %w", s, ErrUnknownAttr)
}

// attr reads a.
func (n *Node) attr(a Attr) float64 {
	switch a {
	case AttrX:
		return n.h.pos
	case AttrY:
		return n.v.pos
	case AttrWidth:
		return n.h.size
	case AttrHeight:
		return n.v.size
	case AttrScaleX:
		return n.scaleX
	case AttrScaleY:
		return n.scaleY
	case AttrRotation:
		return n.rotation
	case AttrOpacity:
		return n.opacity
	case AttrOriginX:
		return n.h.origin
	case AttrOriginY:
		return n.v.origin
	}
	return 0
}

// setAttr writes a through the property setter so layout side effects run.
func (n *Node) setAttr(a Attr, v float64) {
	switch a {
	case AttrX:
		n.SetX(v)
	case AttrY:
		n.SetY(v)
	case AttrWidth:
		n.SetWidth(v)
	case AttrHeight:
		n.SetHeight(v)
	case AttrScaleX:
		n.scaleX = v
	case AttrScaleY:
		n.scaleY = v
	case AttrRotation:
		n.SetRotation(v)
	case AttrOpacity:
		n.SetOpacity(v)
	case AttrOriginX:
		n.SetOriginX(v)
	case AttrOriginY:
		n.SetOriginY(v)
	}
}

// Target is the destination and easing for one animated attribute. A nil
// Easing is Linear.
type Target struct {
	Dest   float64
	Easing Easing
}

// Targets maps attributes to their transition targets.
type Targets map[Attr]Target

type attrTween struct {
	attr  Attr
	start float64
	dest  float64
	ease  Easing
}

// Transition interpolates node attributes towards their targets over a fixed
// duration. Start values are captured on the first step, so the baseline is
// the value at the moment the transition begins, not when it was queued. On
// completion every attribute is set exactly to its destination.
type Transition struct {
	Duration float64
	tweens   []attrTween
	elapsed  float64
	started  bool
	done     bool
}

// NewTransition creates a transition over d seconds. Attributes are applied
// in Attr order each step.
func NewTransition(d float64, targets Targets) *Transition {
	t := &Transition{Duration: d, tweens: make([]attrTween, 0, len(targets))}
	for a, tg := range targets {
		e := tg.Easing
		if e == nil {
			e = Linear
		}
		t.tweens = append(t.tweens, attrTween{attr: a, dest: tg.Dest, ease: e})
	}
	sort.Slice(t.tweens, func(i, j int) bool { return t.tweens[i].attr < t.tweens[j].attr })
	return t
}

func (t *Transition) Step(dt float64, n *Node) {
	if t.done || n == nil {
		return
	}
	if !t.started {
		t.started = true
		for i := range t.tweens {
			t.tweens[i].start = n.attr(t.tweens[i].attr)
		}
	}
	t.elapsed += dt
	if t.Duration <= 0 || t.elapsed >= t.Duration {
		t.done = true
		return
	}
	p := t.elapsed / t.Duration
	for _, tw := range t.tweens {
		n.setAttr(tw.attr, tw.start+tw.ease(p)*(tw.dest-tw.start))
	}
}

// End snaps every attribute to its destination.
func (t *Transition) End(n *Node) {
	if n == nil {
		return
	}
	for _, tw := range t.tweens {
		n.setAttr(tw.attr, tw.dest)
	}
}

func (t *Transition) Done() bool      { return t.done }
func (t *Transition) Immediate() bool { return false }

// --- Convenience constructors ---

// MoveTo creates a Transition of X and Y.
func MoveTo(x, y, d float64, e Easing) *Transition {
	return NewTransition(d, Targets{AttrX: {x, e}, AttrY: {y, e}})
}

// ScaleTo creates a Transition of ScaleX and ScaleY.
func ScaleTo(sx, sy, d float64, e Easing) *Transition {
	return NewTransition(d, Targets{AttrScaleX: {sx, e}, AttrScaleY: {sy, e}})
}

// RotateTo creates a Transition of the rotation in degrees.
func RotateTo(deg, d float64, e Easing) *Transition {
	return NewTransition(d, Targets{AttrRotation: {deg, e}})
}

// FadeTo creates a Transition of the opacity.
func FadeTo(opacity, d float64, e Easing) *Transition {
	return NewTransition(d, Targets{AttrOpacity: {opacity, e}})
}

// ResizeTo creates a Transition of the width and height.
func ResizeTo(w, h, d float64, e Easing) *Transition {
	return NewTransition(d, Targets{AttrWidth: {w, e}, AttrHeight: {h, e}})
}
