package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/placewm/internal/geom"
)

// Action is what a pointer button does when pressed with the modifier held.
type Action int

const (
	ActionNothing Action = iota
	ActionFocus
	ActionMove
	ActionResizeCorner
	ActionResizeSide
)

var actionNames = [...]string{
	ActionNothing:      "nothing",
	ActionFocus:        "focus",
	ActionMove:         "move",
	ActionResizeCorner: "resize_corner",
	ActionResizeSide:   "resize_side",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Button values for click_to_focus.
const (
	ButtonNone   = -1
	ButtonAny    = 0
	ButtonLeft   = 1
	ButtonMiddle = 2
	ButtonRight  = 3
)

var buttonNames = map[string]int{
	"left":   ButtonLeft,
	"middle": ButtonMiddle,
	"right":  ButtonRight,
	"none":   ButtonNone,
	"any":    ButtonAny,
}

// ButtonName returns the canonical token for a click_to_focus value.
func ButtonName(b int) string {
	for name, v := range buttonNames {
		if v == b {
			return name
		}
	}
	return strconv.Itoa(b)
}

// Modifier masks as understood by the X server.
const (
	ModShift   = 1 << 0
	ModControl = 1 << 2
	Mod1       = 1 << 3
	Mod2       = 1 << 4
	Mod3       = 1 << 5
	Mod4       = 1 << 6
	Mod5       = 1 << 7
)

var modifierNames = []struct {
	name string
	mask int
}{
	{"alt", Mod1},
	{"super", Mod4},
	{"shift", ModShift},
	{"ctrl", ModControl},
	{"control", ModControl},
	{"mod1", Mod1},
	{"mod2", Mod2},
	{"mod3", Mod3},
	{"mod4", Mod4},
	{"mod5", Mod5},
}

// ModifierName returns the canonical token for a modifier mask.
func ModifierName(mask int) string {
	for _, m := range modifierNames {
		if m.mask == mask {
			return m.name
		}
	}
	return "0x" + strconv.FormatInt(int64(mask), 16)
}

var directionNames = map[string]geom.Direction{
	"up":    geom.North,
	"north": geom.North,
	"down":  geom.South,
	"south": geom.South,
	"left":  geom.West,
	"west":  geom.West,
	"right": geom.East,
	"east":  geom.East,
}

var positionNames = map[string]geom.Anchor{
	"topleft":     geom.TopLeft,
	"topright":    geom.TopRight,
	"bottomleft":  geom.BottomLeft,
	"bottomright": geom.BottomRight,
	"center":      geom.Center,
	"middle":      geom.Center,
	"left":        geom.Left,
	"bottom":      geom.Bottom,
	"top":         geom.Top,
	"right":       geom.Right,
	"all":         geom.All,
}

var (
	truthy = []string{"true", "yes", "t", "y", "1"}
	falsy  = []string{"false", "no", "f", "n", "0"}
)

// ParseBool accepts the fixed truth set {true, yes, t, y, 1} and its
// negative counterpart, case-insensitively.
func ParseBool(s string) (bool, error) {
	l := strings.ToLower(strings.TrimSpace(s))
	for _, v := range truthy {
		if l == v {
			return true, nil
		}
	}
	for _, v := range falsy {
		if l == v {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrBadArgument, s)
}

// parseArg converts one string token into its numeric representation.
func parseArg(k Kind, s string) (int64, error) {
	tok := strings.TrimSpace(s)
	lower := strings.ToLower(tok)

	switch k {
	case KindInt:
		v, err := strconv.ParseInt(tok, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrBadArgument, s)
		}
		return v, nil

	case KindUint:
		if strings.HasPrefix(tok, "#") {
			tok = "0x" + tok[1:]
		}
		v, err := strconv.ParseUint(tok, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an unsigned number", ErrBadArgument, s)
		}
		return int64(v), nil

	case KindWindow:
		v, err := strconv.ParseUint(tok, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a window id", ErrBadArgument, s)
		}
		return int64(v), nil

	case KindBool:
		b, err := ParseBool(tok)
		if err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}
		return 0, nil

	case KindDirection:
		if d, ok := directionNames[lower]; ok {
			return int64(d), nil
		}
		return 0, fmt.Errorf("%w: %q is not a direction", ErrBadArgument, s)

	case KindPosition:
		if p, ok := positionNames[lower]; ok {
			return int64(p), nil
		}
		return 0, fmt.Errorf("%w: %q is not a position", ErrBadArgument, s)

	case KindAction:
		for i, name := range actionNames {
			if lower == name {
				return int64(i), nil
			}
		}
		return 0, fmt.Errorf("%w: %q is not a pointer action", ErrBadArgument, s)

	case KindModifier:
		for _, m := range modifierNames {
			if lower == m.name {
				return int64(m.mask), nil
			}
		}
		return 0, fmt.Errorf("%w: %q is not a modifier", ErrBadArgument, s)

	case KindButton:
		if b, ok := buttonNames[lower]; ok {
			return int64(b), nil
		}
		return 0, fmt.Errorf("%w: %q is not a button", ErrBadArgument, s)
	}

	return 0, fmt.Errorf("%w: unsupported argument kind %s", ErrBadArgument, k)
}

// formatArg is the inverse of parseArg, producing the canonical token.
func formatArg(k Kind, v int64) string {
	switch k {
	case KindUint, KindWindow:
		return "0x" + strconv.FormatUint(uint64(uint32(v)), 16)
	case KindBool:
		if v != 0 {
			return "true"
		}
		return "false"
	case KindDirection:
		return geom.Direction(v).String()
	case KindPosition:
		return geom.Anchor(v).String()
	case KindAction:
		return Action(v).String()
	case KindModifier:
		return ModifierName(int(v))
	case KindButton:
		return ButtonName(int(v))
	}
	return strconv.FormatInt(v, 10)
}

// validate rejects numeric values that do not name a member of an
// enumerated kind. Used for values decoded from in-band words.
func validate(k Kind, v int64) error {
	ok := true
	switch k {
	case KindBool:
		ok = v == 0 || v == 1
	case KindDirection:
		ok = v >= int64(geom.North) && v <= int64(geom.West)
	case KindPosition:
		ok = v >= int64(geom.BottomLeft) && v <= int64(geom.All)
	case KindAction:
		ok = v >= 0 && int(v) < len(actionNames)
	case KindButton:
		ok = v >= ButtonNone && v <= ButtonRight
	case KindModifier:
		ok = v > 0 && v <= 0xff
	}
	if !ok {
		return fmt.Errorf("%w: %d is not a valid %s", ErrBadArgument, v, k)
	}
	return nil
}
