package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// OptionKind is the value type of a build option.
type OptionKind string

const (
	// OptionBool is switched on or off.
	OptionBool OptionKind = "bool"
	// OptionString carries a value, e.g. a compiler override.
	OptionString OptionKind = "string"
)

// Option is a build configuration switch declared in the project file. An
// enabled option becomes a #define in the generated header and may contribute
// flags to every unit.
type Option struct {
	Name        string
	Define      string
	Description string
	Kind        OptionKind
	Default     string
	Flags       []string
	LDFlags     []string
	Libraries   []string
	// Compiler makes the option value replace the default compiler.
	Compiler  bool
	Conflicts []string
}

// DefineName returns the preprocessor name for the option.
func (o Option) DefineName() string {
	if o.Define != "" {
		return o.Define
	}
	return o.Name
}

// OptionValue is an enabled option with its resolved value.
type OptionValue struct {
	Option Option
	Value  string
}

// OptionSet holds the enabled options in declaration order.
type OptionSet struct {
	Values []OptionValue
	// Conflicts lists every declared mutually exclusive pair, enabled or not,
	// so the generated header can guard against manual edits.
	Conflicts [][2]string
}

// Enabled reports whether the named option is on.
func (s OptionSet) Enabled(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup returns the value of an enabled option.
func (s OptionSet) Lookup(name string) (string, bool) {
	for _, v := range s.Values {
		if v.Option.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// Apply adds the flags of every enabled option to d.
func (s OptionSet) Apply(d *Defaults) {
	for _, v := range s.Values {
		d.Flags = append(d.Flags, v.Option.Flags...)
		d.LDFlags = append(d.LDFlags, v.Option.LDFlags...)
		d.Libraries = append(d.Libraries, v.Option.Libraries...)
		if v.Option.Compiler && v.Value != "" {
			d.Compiler = v.Value
		}
	}
}

// ResolveOptions combines declared defaults with command line toggles.
// A toggle is NAME, NAME=value or NAME=false.
func ResolveOptions(declared []Option, toggles []string) (OptionSet, error) {
	values := make(map[string]string, len(declared))
	enabled := make(map[string]bool, len(declared))
	byName := make(map[string]Option, len(declared))

	for _, opt := range declared {
		byName[opt.Name] = opt
		on, value, err := parseOptionValue(opt, opt.Default, opt.Default != "")
		if err != nil {
			return OptionSet{}, err
		}
		enabled[opt.Name] = on
		values[opt.Name] = value
	}

	for _, toggle := range toggles {
		name, raw, hasValue := strings.Cut(toggle, "=")
		name = strings.TrimSpace(name)
		opt, ok := byName[name]
		if !ok {
			return OptionSet{}, zerr.With(zerr.Wrap(ErrUnknownOption, "failed to resolve options"), "option", name)
		}
		if !hasValue {
			if opt.Kind == OptionString {
				return OptionSet{}, zerr.With(zerr.Wrap(ErrInvalidOptionValue, "string option needs a value"), "option", name)
			}
			raw = "true"
			hasValue = true
		}
		on, value, err := parseOptionValue(opt, raw, hasValue)
		if err != nil {
			return OptionSet{}, err
		}
		enabled[name] = on
		values[name] = value
	}

	set := OptionSet{}
	seen := make(map[[2]string]bool)
	for _, opt := range declared {
		for _, other := range opt.Conflicts {
			pair := [2]string{opt.DefineName(), defineNameOf(byName, other)}
			if !seen[pair] && !seen[[2]string{pair[1], pair[0]}] {
				seen[pair] = true
				set.Conflicts = append(set.Conflicts, pair)
			}
			if enabled[opt.Name] && enabled[other] {
				return OptionSet{}, zerr.With(zerr.With(zerr.Wrap(ErrOptionConflict, "failed to resolve options"),
					"option", opt.Name), "conflicts_with", other)
			}
		}
		if enabled[opt.Name] {
			set.Values = append(set.Values, OptionValue{Option: opt, Value: values[opt.Name]})
		}
	}
	return set, nil
}

func parseOptionValue(opt Option, raw string, hasValue bool) (bool, string, error) {
	if !hasValue {
		return false, "", nil
	}
	switch opt.Kind {
	case OptionString:
		if raw == "" {
			return false, "", zerr.With(zerr.Wrap(ErrInvalidOptionValue, "string option needs a value"), "option", opt.Name)
		}
		return true, raw, nil
	default:
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return false, "", zerr.With(zerr.With(zerr.Wrap(ErrInvalidOptionValue, "bool option expects true or false"),
				"option", opt.Name), "value", raw)
		}
		if !on {
			return false, "", nil
		}
		return true, "1", nil
	}
}

func defineNameOf(byName map[string]Option, name string) string {
	if opt, ok := byName[name]; ok {
		return opt.DefineName()
	}
	return name
}
