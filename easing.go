package stagehand

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Easing maps normalized progress t in [0, 1] to eased progress. Easings
// return 0 at t=0 and 1 at t=1; some curves overshoot in between.
type Easing func(t float64) float64

// FromTween adapts a gween easing function to an Easing.
func FromTween(fn ease.TweenFunc) Easing {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// Linear is exact in float64; the other easings go through gween.
func Linear(t float64) float64 { return t }

var (
	InQuad     = FromTween(ease.InQuad)
	OutQuad    = FromTween(ease.OutQuad)
	InOutQuad  = FromTween(ease.InOutQuad)
	InCubic    = FromTween(ease.InCubic)
	OutCubic   = FromTween(ease.OutCubic)
	InOutCubic = FromTween(ease.InOutCubic)
	InSine     = FromTween(ease.InSine)
	OutSine    = FromTween(ease.OutSine)
	InOutSine  = FromTween(ease.InOutSine)
	InExpo     = FromTween(ease.InExpo)
	OutExpo    = FromTween(ease.OutExpo)
	OutBounce  = FromTween(ease.OutBounce)
	OutElastic = FromTween(ease.OutElastic)
	OutBack    = FromTween(ease.OutBack)
)

var easingsByName = map[string]Easing{
	"linear":     Linear,
	"inquad":     InQuad,
	"outquad":    OutQuad,
	"inoutquad":  InOutQuad,
	"incubic":    InCubic,
	"outcubic":   OutCubic,
	"inoutcubic": InOutCubic,
	"insine":     InSine,
	"outsine":    OutSine,
	"inoutsine":  InOutSine,
	"inexpo":     InExpo,
	"outexpo":    OutExpo,
	"outbounce":  OutBounce,
	"outelastic": OutElastic,
	"outback":    OutBack,
}

// EasingByName resolves names such as "linear", "outQuad" or "in-out-sine".
// An empty name resolves to Linear.
func EasingByName(name string) (Easing, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	if key == "" {
		return Linear, nil
	}
	if e, ok := easingsByName[key]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("stagehand: easing %q: %w", name, ErrUnknownEasing)
}
