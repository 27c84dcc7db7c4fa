package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

//go:embed data.json
var analysisJSON []byte

// Minimal OpenAI-compatible chat endpoint for local development. Point the
// service at it with APP_AI_DEEPSEEK_BASE_URL=http://localhost:8083 and any
// non-empty APP_AI_DEEPSEEK_API_KEY.
func main() {
	http.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		// Simulate model latency (200-700ms)
		time.Sleep(time.Duration(200+time.Now().UnixNano()%500) * time.Millisecond)

		resp := map[string]any{
			"id":      "chatcmpl-mock",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "deepseek-chat",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": string(analysisJSON),
					},
					"finish_reason": "stop",
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("[Mock DeepSeek] Write error: %v", err)
		}

		log.Printf("[Mock DeepSeek] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Mock DeepSeek] Health write error: %v", err)
		}
	})

	log.Println("Mock DeepSeek running on :8083")
	server := &http.Server{
		Addr:         ":8083",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
