package romind

import "strings"

// Proximity is the closeness tier gating how intimate a reply may be.
type Proximity string

const (
	ProximityOuter  Proximity = "outer"
	ProximityMiddle Proximity = "middle"
	ProximityInner  Proximity = "inner"
)

// innerCircleRoles are the roles close enough to reach the inner tier.
var innerCircleRoles = map[string]bool{
	"partner": true,
	"parent":  true,
	"friend":  true,
	"child":   true,
}

// Classify maps trust and role context onto a proximity tier. It is total:
// every trust value and any role string (including "") yields a tier.
func Classify(trust float64, roleContext string) Proximity {
	role := strings.ToLower(roleContext)
	if trust >= 0.8 && innerCircleRoles[role] {
		return ProximityInner
	}
	if trust >= 0.5 {
		return ProximityMiddle
	}
	return ProximityOuter
}
