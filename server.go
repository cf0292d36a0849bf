package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"

	"github.com/gorilla/websocket"
)

var (
	uuidRe     = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	uuidPathRe = regexp.MustCompile(`^/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// MetricsResponse is served on /api/metrics
type MetricsResponse struct {
	Sessions  int             `json:"sessions"`
	Clients   int             `json:"clients"`
	Dropped   int             `json:"dropped"`
	Events    map[string]int  `json:"events,omitempty"`
	Purchases []ItemAnalytics `json:"purchases,omitempty"`
}

// SetupRoutes configures HTTP routes. sfx may be nil to disable sound files.
func SetupRoutes(hub *Hub, clientDir string, sfx *SfxBank) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	if clientDir != "" {
		fs := http.FileServer(http.Dir(clientDir))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			// SPA: serve index.html for root and session (controller) paths
			if r.URL.Path == "/" || uuidPathRe.MatchString(r.URL.Path) {
				http.ServeFile(w, r, filepath.Join(clientDir, "index.html"))
				return
			}
			fs.ServeHTTP(w, r)
		}))
	}

	if sfx != nil {
		mux.Handle("GET /sfx/{name}", sfx)
	}
	mux.HandleFunc("GET /qr/{sid}", qrHandler(hub.sessions))

	mux.HandleFunc("GET /api/metrics", func(w http.ResponseWriter, r *http.Request) {
		resp := MetricsResponse{Sessions: hub.sessions.Count(), Clients: hub.ClientCount()}
		if a := hub.backend.analytics(); a != nil {
			_, resp.Dropped = a.LiveMetrics()
			counts, err := a.EventCounts(7)
			if err != nil {
				log.Printf("metrics: event counts: %v", err)
			}
			resp.Events = counts
			top, err := a.PopularPurchases(5)
			if err != nil {
				log.Printf("metrics: purchases: %v", err)
			}
			resp.Purchases = top
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		client.Open()
		go client.ReadPump()
	})

	return mux
}
