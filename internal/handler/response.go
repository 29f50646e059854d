package handler

// AlertResult is the outcome of relaying one alert, reported in input order.
type AlertResult struct {
	Alertname string `json:"alertname"`
	Recipient string `json:"recipient,omitempty"`
	Sent      bool   `json:"sent"`
	Error     string `json:"error,omitempty"`
}

// WebhookResponse represents the JSON response for the /webhook/sms endpoint
type WebhookResponse struct {
	Success bool          `json:"success"`
	Sent    int           `json:"sent"`
	Failed  int           `json:"failed"`
	Results []AlertResult `json:"results"`
}

// HealthResponse represents the JSON response for the /health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
