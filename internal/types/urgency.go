// README: Request urgency shared by hospital requests and orders.
package types

import "strings"

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency normalises raw input. Empty input means normal.
func ParseUrgency(raw string) (Urgency, bool) {
	switch u := Urgency(strings.ToLower(strings.TrimSpace(raw))); u {
	case "":
		return UrgencyNormal, true
	case UrgencyNormal, UrgencyUrgent, UrgencyCritical:
		return u, true
	default:
		return "", false
	}
}
