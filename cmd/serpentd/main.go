package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"serpent/internal/relay"
	"serpent/internal/sim"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	wsPath := flag.String("ws", "/ws", "websocket path")
	flag.Parse()

	// Seed from environment or clock.
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("SERPENT_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = v
		}
	}

	conns := relay.NewConnManager()
	hub := relay.NewHub(sim.DefaultConfig(), seed, conns)
	server := relay.NewServer(hub, conns)

	http.HandleFunc(*wsPath, server.HandleWS)

	stop := make(chan struct{})
	go hub.Run(stop)

	log.Printf("serpentd listening on %s (seed %d)", *addr, seed)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
