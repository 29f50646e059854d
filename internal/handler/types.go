package handler

// recipientLabel names the alert label that overrides the default SMS
// recipient for a single alert.
const recipientLabel = "phone"

// Alert is one normalized alert extracted from the webhook payload.
// Grafana guarantees very little about individual alert objects, so all
// fields may be empty; Labels and Annotations are never nil after parsing.
type Alert struct {
	Status      string
	Labels      map[string]string
	Annotations map[string]string
}

// GetLabel returns the value of a label, or empty string if not present.
// Labels like severity, instance, phone are user-defined and may not exist.
func (a *Alert) GetLabel(name string) string {
	if a.Labels == nil {
		return ""
	}
	return a.Labels[name]
}

// GetAnnotation returns the value of an annotation, or empty string if not
// present. Annotations like summary, description are user-defined and may
// not exist.
func (a *Alert) GetAnnotation(name string) string {
	if a.Annotations == nil {
		return ""
	}
	return a.Annotations[name]
}

// Name returns the alertname label, or empty string if the alert has none.
func (a *Alert) Name() string {
	return a.GetLabel("alertname")
}

// Recipient returns the per-alert recipient override, or empty string if
// the alert does not carry one.
func (a *Alert) Recipient() string {
	return a.GetLabel(recipientLabel)
}
