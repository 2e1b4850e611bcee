package command

import (
	"fmt"

	"github.com/1broseidon/placewm/internal/geom"
)

// MaxWords is the number of 32-bit words an in-band message carries,
// including the leading command id.
const MaxWords = 5

// Call is a fully parsed command invocation. Keyed commands store the key
// ordinal in Args[0]; win_config stores the window in Args[1].
type Call struct {
	Command Command
	Args    []int64
}

// kinds returns the argument kinds of c after the key, or an error when the
// key is unknown.
func kinds(c Command, key int64) ([]Kind, error) {
	switch c {
	case WMConfig:
		ks := ConfigKey(key).Args()
		if ks == nil {
			return nil, fmt.Errorf("%w: %d", ErrUnknownKey, key)
		}
		return ks, nil
	case WinConfig:
		ks := WinConfigKey(key).Args()
		if ks == nil {
			return nil, fmt.Errorf("%w: %d", ErrUnknownKey, key)
		}
		return append([]Kind{KindWindow}, ks...), nil
	}
	return c.Args(), nil
}

// Parse resolves name and parses the string arguments. No state is touched;
// a returned error means the request was malformed.
func Parse(name string, args []string) (Call, error) {
	cmd, err := Lookup(name)
	if err != nil {
		return Call{}, err
	}

	call := Call{Command: cmd}
	rest := args

	if commands[cmd].keyed {
		if len(args) == 0 {
			return Call{}, fmt.Errorf("%w: %s needs a key", ErrArity, name)
		}
		var key int64
		switch cmd {
		case WMConfig:
			k, err := LookupConfigKey(args[0])
			if err != nil {
				return Call{}, err
			}
			key = int64(k)
		case WinConfig:
			k, err := LookupWinConfigKey(args[0])
			if err != nil {
				return Call{}, err
			}
			key = int64(k)
		}
		call.Args = append(call.Args, key)
		rest = args[1:]
	}

	var key int64
	if len(call.Args) > 0 {
		key = call.Args[0]
	}
	ks, err := kinds(cmd, key)
	if err != nil {
		return Call{}, err
	}
	if len(rest) != len(ks) {
		return Call{}, fmt.Errorf("%w: %s expects %d, got %d", ErrArity, name, len(ks), len(rest))
	}

	for i, k := range ks {
		v, err := parseArg(k, rest[i])
		if err != nil {
			return Call{}, fmt.Errorf("%s argument %d: %w", name, i+1, err)
		}
		call.Args = append(call.Args, v)
	}
	return call, nil
}

// Format renders c back into its command name and canonical argument
// tokens, so that Parse(Format(c)) yields c.
func Format(c Call) (string, []string, error) {
	if !c.Command.valid() {
		return "", nil, fmt.Errorf("%w: %d", ErrUnknownCommand, int(c.Command))
	}

	var out []string
	args := c.Args
	var key int64
	if commands[c.Command].keyed {
		if len(args) == 0 {
			return "", nil, fmt.Errorf("%w: %s needs a key", ErrArity, c.Command)
		}
		key = args[0]
		switch c.Command {
		case WMConfig:
			out = append(out, ConfigKey(key).String())
		case WinConfig:
			out = append(out, WinConfigKey(key).String())
		}
		args = args[1:]
	}

	ks, err := kinds(c.Command, key)
	if err != nil {
		return "", nil, err
	}
	if len(args) != len(ks) {
		return "", nil, fmt.Errorf("%w: %s expects %d, got %d", ErrArity, c.Command, len(ks), len(args))
	}
	for i, k := range ks {
		out = append(out, formatArg(k, args[i]))
	}
	return c.Command.String(), out, nil
}

// Decode converts an in-band message into a Call. Trailing padding words
// are ignored.
func Decode(words []uint32) (Call, error) {
	if len(words) == 0 {
		return Call{}, fmt.Errorf("%w: empty message", ErrArity)
	}
	cmd := Command(words[0])
	if !cmd.valid() {
		return Call{}, fmt.Errorf("%w: id %d", ErrUnknownCommand, words[0])
	}
	spec := commands[cmd]
	data := words[1:]
	call := Call{Command: cmd}

	if spec.signed {
		if len(data) < 4 {
			return Call{}, fmt.Errorf("%w: %s needs 4 words, got %d", ErrArity, cmd, len(data))
		}
		for i := 0; i < 2; i++ {
			v := int64(data[2+i])
			if data[i] != 0 {
				v = -v
			}
			call.Args = append(call.Args, v)
		}
		return call, nil
	}

	var key int64
	if spec.keyed {
		if len(data) == 0 {
			return Call{}, fmt.Errorf("%w: %s needs a key", ErrArity, cmd)
		}
		key = int64(data[0])
		call.Args = append(call.Args, key)
		data = data[1:]
	}

	ks, err := kinds(cmd, key)
	if err != nil {
		return Call{}, err
	}
	if len(data) < len(ks) {
		return Call{}, fmt.Errorf("%w: %s needs %d words, got %d", ErrArity, cmd, len(ks), len(data))
	}
	for i, k := range ks {
		var v int64
		switch k {
		case KindInt, KindButton:
			v = int64(int32(data[i]))
		default:
			v = int64(data[i])
		}
		if err := validate(k, v); err != nil {
			return Call{}, fmt.Errorf("%s word %d: %w", cmd, i+1, err)
		}
		call.Args = append(call.Args, v)
	}
	return call, nil
}

// Encode is the inverse of Decode. It fails when the call does not fit in
// a single in-band message.
func Encode(c Call) ([]uint32, error) {
	if !c.Command.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, int(c.Command))
	}
	words := []uint32{uint32(c.Command)}

	if commands[c.Command].signed {
		if len(c.Args) != 2 {
			return nil, fmt.Errorf("%w: %s expects 2, got %d", ErrArity, c.Command, len(c.Args))
		}
		var signs, mags [2]uint32
		for i, v := range c.Args {
			if v < 0 {
				signs[i] = 1
				v = -v
			}
			mags[i] = uint32(v)
		}
		return append(words, signs[0], signs[1], mags[0], mags[1]), nil
	}

	for _, v := range c.Args {
		words = append(words, uint32(v))
	}
	if len(words) > MaxWords {
		return nil, fmt.Errorf("%s needs %d words, in-band messages carry %d", c.Command, len(words), MaxWords)
	}
	return words, nil
}

// Int returns argument i as an int.
func (c Call) Int(i int) int {
	return int(c.Args[i])
}

// Bool returns argument i as a bool.
func (c Call) Bool(i int) bool {
	return c.Args[i] != 0
}

// Direction returns argument i as a direction.
func (c Call) Direction(i int) geom.Direction {
	return geom.Direction(c.Args[i])
}

// Anchor returns argument i as a position.
func (c Call) Anchor(i int) geom.Anchor {
	return geom.Anchor(c.Args[i])
}

// Action returns argument i as a pointer action.
func (c Call) Action(i int) Action {
	return Action(c.Args[i])
}

// Uint32 returns argument i as an unsigned 32-bit value.
func (c Call) Uint32(i int) uint32 {
	return uint32(c.Args[i])
}

// ConfigKey returns the key of a wm_config call.
func (c Call) ConfigKey() ConfigKey {
	return ConfigKey(c.Args[0])
}

// WinConfigKey returns the key of a win_config call.
func (c Call) WinConfigKey() WinConfigKey {
	return WinConfigKey(c.Args[0])
}
