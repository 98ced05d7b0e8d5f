package enums

import "fmt"

// AttributionType describes how a lead conversion was matched to an order.
type AttributionType string

const (
	AttributionManual    AttributionType = "manual"
	AttributionPhone     AttributionType = "phone"
	AttributionReference AttributionType = "reference"
)

var validAttributionTypes = []AttributionType{
	AttributionManual,
	AttributionPhone,
	AttributionReference,
}

// IsValid reports whether the attribution type is recognized.
func (a AttributionType) IsValid() bool {
	for _, candidate := range validAttributionTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAttributionType converts raw strings into AttributionType.
func ParseAttributionType(value string) (AttributionType, error) {
	for _, candidate := range validAttributionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attribution type %q", value)
}
