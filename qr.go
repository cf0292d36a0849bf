package main

import (
	"net/http"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// controllerURL is the page a phone opens to drive session sid
func controllerURL(r *http.Request, sid string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/" + sid + "?ctrl=1"
}

// qrHandler serves a PNG QR code pointing a phone at the controller page
func qrHandler(sessions *SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := r.PathValue("sid")
		if !uuidRe.MatchString(sid) || sessions.GetSession(sid) == nil {
			http.NotFound(w, r)
			return
		}
		png, err := qrcode.Encode(controllerURL(r, sid), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	}
}
