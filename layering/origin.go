package layering

// Origin identifies which layer produced an effective value. Higher origins
// were applied later during resolution.
type Origin int

const (
	// OriginUnknown guards against misconfiguration so call sites can detect
	// a key that no layer supplied.
	OriginUnknown Origin = iota
	// OriginDefault is the variant default (weakest).
	OriginDefault
	// OriginInstance is a per-instance override.
	OriginInstance
	// OriginTheme is a portfolio theme fallback for a channel the instance
	// left undefined.
	OriginTheme
	// OriginForced is a theme value that wins over instance overrides
	// (dark mode text color).
	OriginForced
)

func (o Origin) String() string {
	switch o {
	case OriginDefault:
		return "default"
	case OriginInstance:
		return "instance"
	case OriginTheme:
		return "theme"
	case OriginForced:
		return "forced"
	default:
		return "unknown"
	}
}

// ParseOrigin converts a string representation into the corresponding Origin.
// Returns OriginUnknown for unrecognised values.
func ParseOrigin(value string) Origin {
	switch value {
	case "default", "DEFAULT":
		return OriginDefault
	case "instance", "INSTANCE":
		return OriginInstance
	case "theme", "THEME":
		return OriginTheme
	case "forced", "FORCED":
		return OriginForced
	default:
		return OriginUnknown
	}
}

// MarshalText implements encoding.TextMarshaler so traces serialise origins
// by name.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Origin) UnmarshalText(text []byte) error {
	*o = ParseOrigin(string(text))
	return nil
}
