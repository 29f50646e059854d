package handler

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatBody(t *testing.T) {
	tests := []struct {
		name  string
		alert Alert
		want  string
	}{
		{
			name: "all fields present",
			alert: Alert{
				Status:      "firing",
				Labels:      map[string]string{"alertname": "HighCPU"},
				Annotations: map[string]string{"summary": "CPU > 90%"},
			},
			want: "[firing] HighCPU: CPU > 90%",
		},
		{
			name: "resolved alert",
			alert: Alert{
				Status:      "resolved",
				Labels:      map[string]string{"alertname": "HighCPU"},
				Annotations: map[string]string{"summary": "CPU > 90%"},
			},
			want: "[resolved] HighCPU: CPU > 90%",
		},
		{
			name: "missing summary",
			alert: Alert{
				Status: "firing",
				Labels: map[string]string{"alertname": "DiskFull"},
			},
			want: "[firing] DiskFull: unknown",
		},
		{
			name: "missing alertname",
			alert: Alert{
				Status:      "firing",
				Annotations: map[string]string{"summary": "something broke"},
			},
			want: "[firing] unknown: something broke",
		},
		{
			name:  "everything missing",
			alert: Alert{},
			want:  "[unknown] unknown: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBody(&tt.alert); got != tt.want {
				t.Errorf("FormatBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildMessage_RecipientResolution(t *testing.T) {
	alertWithPhone := Alert{
		Status: "firing",
		Labels: map[string]string{"alertname": "A", "phone": "+15550001111"},
	}
	alertWithoutPhone := Alert{
		Status: "firing",
		Labels: map[string]string{"alertname": "B"},
	}

	tests := []struct {
		name    string
		alert   *Alert
		cfg     Config
		wantTo  string
		wantErr error
	}{
		{
			name:   "label override wins over default",
			alert:  &alertWithPhone,
			cfg:    Config{Sender: "ops", DefaultRecipient: "+25190000000"},
			wantTo: "+15550001111",
		},
		{
			name:   "default recipient used when no override",
			alert:  &alertWithoutPhone,
			cfg:    Config{Sender: "ops", DefaultRecipient: "+25190000000"},
			wantTo: "+25190000000",
		},
		{
			name:    "no recipient at all",
			alert:   &alertWithoutPhone,
			cfg:     Config{Sender: "ops"},
			wantErr: ErrNoRecipient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := BuildMessage(tt.alert, &tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildMessage returned error: %v", err)
			}
			if msg.To != tt.wantTo {
				t.Errorf("expected recipient %q, got %q", tt.wantTo, msg.To)
			}
			if msg.From != "ops" {
				t.Errorf("expected sender 'ops', got %q", msg.From)
			}
		})
	}
}

func TestBuildMessage_Body(t *testing.T) {
	alert := Alert{
		Status:      "firing",
		Labels:      map[string]string{"alertname": "HighCPU"},
		Annotations: map[string]string{"summary": "CPU > 90%"},
	}
	cfg := Config{Sender: "ops", DefaultRecipient: "+25190000000"}

	msg, err := BuildMessage(&alert, &cfg)
	if err != nil {
		t.Fatalf("BuildMessage returned error: %v", err)
	}
	if msg.Body != "[firing] HighCPU: CPU > 90%" {
		t.Errorf("unexpected body %q", msg.Body)
	}
	if msg.To != "+25190000000" {
		t.Errorf("unexpected recipient %q", msg.To)
	}
}

func TestBuildMessage_Prefix(t *testing.T) {
	alert := Alert{
		Status:      "firing",
		Labels:      map[string]string{"alertname": "A"},
		Annotations: map[string]string{"summary": "s"},
	}
	cfg := Config{Sender: "ops", DefaultRecipient: "+1", MessagePrefix: "[PROD]"}

	msg, err := BuildMessage(&alert, &cfg)
	if err != nil {
		t.Fatalf("BuildMessage returned error: %v", err)
	}
	if msg.Body != "[PROD] [firing] A: s" {
		t.Errorf("unexpected body %q", msg.Body)
	}
}

func TestBuildMessage_Truncation(t *testing.T) {
	alert := Alert{
		Status:      "firing",
		Labels:      map[string]string{"alertname": "A"},
		Annotations: map[string]string{"summary": strings.Repeat("x", 1000)},
	}

	t.Run("configured limit", func(t *testing.T) {
		cfg := Config{Sender: "ops", DefaultRecipient: "+1", MaxMessageLength: 40}
		msg, err := BuildMessage(&alert, &cfg)
		if err != nil {
			t.Fatalf("BuildMessage returned error: %v", err)
		}
		if len(msg.Body) != 40 {
			t.Errorf("expected body length 40, got %d", len(msg.Body))
		}
		if strings.HasSuffix(msg.Body, "...") {
			t.Errorf("truncation must not append an ellipsis, got %q", msg.Body)
		}
	})

	t.Run("default limit", func(t *testing.T) {
		cfg := Config{Sender: "ops", DefaultRecipient: "+1"}
		msg, err := BuildMessage(&alert, &cfg)
		if err != nil {
			t.Fatalf("BuildMessage returned error: %v", err)
		}
		if len(msg.Body) != DefaultMaxMessageLength {
			t.Errorf("expected body length %d, got %d", DefaultMaxMessageLength, len(msg.Body))
		}
	})
}
