package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// SentMessage records one sendsms call for later verification
type SentMessage struct {
	ReceivedAt time.Time `json:"received_at"`
	Username   string    `json:"username"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Text       string    `json:"text"`
	Charset    string    `json:"charset"`
}

// MessageStore stores sent messages for verification
type MessageStore struct {
	mu       sync.RWMutex
	messages []SentMessage
}

func (s *MessageStore) Add(msg SentMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *MessageStore) GetAll() []SentMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]SentMessage, len(s.messages))
	copy(result, s.messages)
	return result
}

func (s *MessageStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

var store = &MessageStore{}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "13013"
	}
	// Credentials the relay must present; empty means accept anything.
	wantUser := os.Getenv("KANNEL_USER")
	wantPass := os.Getenv("KANNEL_PASS")
	// FAIL_MODE=reject makes every sendsms call fail, for error-path testing.
	failMode := os.Getenv("FAIL_MODE")

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "mock-kannel healthy")
	})

	// Kannel-style sendsms endpoint: GET with query parameters.
	http.HandleFunc("/cgi-bin/sendsms", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			log.Printf("405 Method Not Allowed: %s %s", r.Method, r.URL.Path)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		user, pass, ok := r.BasicAuth()
		if wantUser != "" && (!ok || user != wantUser || pass != wantPass) {
			log.Printf("403 bad credentials from %s", r.RemoteAddr)
			http.Error(w, "Authorization failed for sendsms", http.StatusForbidden)
			return
		}

		q := r.URL.Query()
		if q.Get("to") == "" || q.Get("text") == "" {
			http.Error(w, "missing to or text parameter", http.StatusBadRequest)
			return
		}

		if failMode == "reject" {
			http.Error(w, "Temporal failure, try again later", http.StatusServiceUnavailable)
			return
		}

		store.Add(SentMessage{
			ReceivedAt: time.Now(),
			Username:   user,
			From:       q.Get("from"),
			To:         q.Get("to"),
			Text:       q.Get("text"),
			Charset:    q.Get("charset"),
		})
		log.Printf("SMS to %s from %s: %q", q.Get("to"), q.Get("from"), q.Get("text"))

		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, "0: Accepted for delivery")
	})

	// GET /messages - retrieve all sent messages for verification
	// DELETE /messages - clear the store
	http.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			messages := store.GetAll()
			w.Header().Set("Content-Type", "application/json")
			response := map[string]interface{}{
				"count":    len(messages),
				"messages": messages,
			}
			if err := json.NewEncoder(w).Encode(response); err != nil {
				log.Printf("Failed to encode messages response: %v", err)
			}
		case http.MethodDelete:
			store.Clear()
			w.WriteHeader(http.StatusNoContent)
			log.Printf("Message store cleared")
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})

	log.Printf("mock-kannel listening on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("mock-kannel: %v", err)
	}
}
