package enums

import "fmt"

// ZoneKind maps to the CHECK-constrained kind column on zones.
type ZoneKind string

const (
	ZoneKindQueueArea ZoneKind = "QUEUE_AREA"
	ZoneKindLoadPad   ZoneKind = "LOAD_PAD"
	ZoneKindDumpArea  ZoneKind = "DUMP_AREA"
	ZoneKindZoneArea  ZoneKind = "ZONE_AREA"
)

var validZoneKinds = []ZoneKind{
	ZoneKindQueueArea,
	ZoneKindLoadPad,
	ZoneKindDumpArea,
	ZoneKindZoneArea,
}

// String implements fmt.Stringer.
func (z ZoneKind) String() string {
	return string(z)
}

// IsValid reports whether the value matches the canonical zone_kind enum.
func (z ZoneKind) IsValid() bool {
	for _, candidate := range validZoneKinds {
		if candidate == z {
			return true
		}
	}
	return false
}

// ParseZoneKind converts raw input into ZoneKind.
func ParseZoneKind(value string) (ZoneKind, error) {
	for _, candidate := range validZoneKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid zone kind %q", value)
}

// NamePrefix returns the short prefix used when synthesizing remote resource
// names for zones of this kind.
func (z ZoneKind) NamePrefix() string {
	switch z {
	case ZoneKindQueueArea:
		return "QUE"
	case ZoneKindLoadPad:
		return "LOAD"
	case ZoneKindDumpArea:
		return "DUMP"
	case ZoneKindZoneArea:
		return "ZONE"
	default:
		return "OP"
	}
}
