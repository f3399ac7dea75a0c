package model

import "strings"

// Severity is the display severity of a backend-reported anomaly.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityCritical
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	if s == SeverityCritical {
		return "critical"
	}
	return "warning"
}

// ClassifiedAnomaly pairs an anomaly message with its severity.
type ClassifiedAnomaly struct {
	Message  string
	Severity Severity
}

// Classify labels each anomaly string by severity, preserving order.
// An anomaly is critical iff its text contains "CRITICAL" in any case;
// everything else is a warning. The detection itself is backend-side —
// this is purely a lexical match for display.
func Classify(anomalies []string) []ClassifiedAnomaly {
	if len(anomalies) == 0 {
		return nil
	}
	out := make([]ClassifiedAnomaly, 0, len(anomalies))
	for _, msg := range anomalies {
		sev := SeverityWarning
		if strings.Contains(strings.ToUpper(msg), "CRITICAL") {
			sev = SeverityCritical
		}
		out = append(out, ClassifiedAnomaly{Message: msg, Severity: sev})
	}
	return out
}
