package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restocall/internal/config"
	"restocall/internal/conversation"
	"restocall/internal/database"
	"restocall/internal/demolog"
	"restocall/internal/handlers"
	"restocall/internal/phrases"
	"restocall/internal/relay"
	"restocall/internal/tts"
)

func main() {
	// 1. Load environment configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2. Load the canned phrase catalog.
	phrases.Load(cfg.PhrasesPath)

	// 3. Initialise the SQLite database and run migrations.
	db := database.Init(cfg.DBPath)

	// 4. Wire the process-wide collaborators: phrase cache, TTS gateway,
	//    event log, session store, relay client, conversation engine.
	cache := tts.NewCache()
	gateway := tts.NewGateway(tts.Config{
		APIKey:       cfg.ElevenAPIKey,
		VoiceFR:      cfg.ElevenVoiceFR,
		VoiceEN:      cfg.ElevenVoiceEN,
		DefaultVoice: cfg.ElevenVoiceID,
	}, cache)
	events := demolog.New()
	store := conversation.NewMemoryStore(0)
	relayClient := relay.NewClient(cfg.RelayURL)
	engine := conversation.NewEngine(store, conversation.NewKeywordClassifier(), relayClient, events)

	// 5. Set up the router.
	r := mux.NewRouter()

	r.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Call simulator routes.
	r.HandleFunc("/api/calls", handlers.StartCall(engine, gateway, events)).Methods(http.MethodPost)
	r.HandleFunc("/api/calls/{id}/turn", handlers.HandleCallTurn(engine, gateway, events)).Methods(http.MethodPost)
	r.HandleFunc("/api/calls/{id}", handlers.EndCall(engine)).Methods(http.MethodDelete)
	r.HandleFunc("/api/calls/stream", handlers.StreamCall(engine, gateway, events)).Methods(http.MethodGet)
	r.HandleFunc("/api/audio/{key}", handlers.ServeAudio(cache)).Methods(http.MethodGet)

	// Complaint relay routes.
	r.HandleFunc("/api/complaints", handlers.ReceiveComplaint(db)).Methods(http.MethodPost)
	r.HandleFunc("/api/complaints", handlers.ListComplaints(db)).Methods(http.MethodGet)
	r.HandleFunc("/api/complaints/{id}/status", handlers.UpdateComplaintStatus(db)).Methods(http.MethodPost)

	// Admin / debug routes.
	r.HandleFunc("/api/logs", handlers.ListLogs(events)).Methods(http.MethodGet)
	r.HandleFunc("/api/logs", handlers.ClearLogs(events)).Methods(http.MethodDelete)
	r.HandleFunc("/api/customers/{phone}", handlers.GetCustomer(db)).Methods(http.MethodGet)
	r.HandleFunc("/api/orders", handlers.SubmitOrder(db, events)).Methods(http.MethodPost)

	// 6. Start the server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("server: listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server: %v", err)
	}
}
