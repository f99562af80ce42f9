package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"pubquiz-service/internal/app"
)

const qrSize = 320

// NewRouter wires the websocket endpoint, the read-only state endpoints and the join QR code.
// publicURL is the address players open on their phones; when empty it is derived from the request.
func NewRouter(service *app.QuizService, publicURL string) *httprouter.Router {
	mux := httprouter.New()
	ws := NewWSHandler(service)

	mux.HandlerFunc(http.MethodGet, "/ws", ws.ServeWS)
	mux.GET("/api/state", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, service.State())
	})
	mux.GET("/api/players", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, service.Players())
	})
	mux.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Write([]byte("ok"))
	})
	mux.GET("/qr", qrHandler(publicURL))
	return mux
}

// qrHandler renders a PNG QR code of the join URL for the display screen.
func qrHandler(publicURL string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		url := publicURL
		if url == "" {
			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}
			if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
				scheme = proto
			}
			url = scheme + "://" + r.Host + "/"
		}

		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}
