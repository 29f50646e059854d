package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Sends a sample Grafana-style alert webhook to a running relay, for manual
// end-to-end testing against mock-kannel or a real gateway.

type alert struct {
	Status      string            `json:"status"`
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
}

type payload struct {
	Status string  `json:"status"`
	Alerts []alert `json:"alerts"`
}

func main() {
	target := flag.String("target", "http://localhost:9090/webhook/sms", "relay webhook URL")
	status := flag.String("status", "firing", "alert status to send")
	name := flag.String("alertname", "HighCPU", "alertname label")
	summary := flag.String("summary", "CPU > 90%", "summary annotation")
	phone := flag.String("phone", "", "optional per-alert recipient override label")
	count := flag.Int("count", 1, "number of alerts in the payload")
	flag.Parse()

	p := payload{Status: *status}
	for i := 0; i < *count; i++ {
		a := alert{
			Status:      *status,
			Labels:      map[string]string{"alertname": *name, "instance": fmt.Sprintf("node-%d", i+1)},
			Annotations: map[string]string{"summary": *summary},
		}
		if *phone != "" {
			a.Labels["phone"] = *phone
		}
		p.Alerts = append(p.Alerts, a)
	}

	body, err := json.Marshal(p)
	if err != nil {
		log.Fatalf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, *target, bytes.NewReader(body))
	if err != nil {
		log.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		req.Header.Set("x-webhook-token", secret)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("HTTP %d\n%s\n", resp.StatusCode, respBody)
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
