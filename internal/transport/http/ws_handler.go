package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"pubquiz-service/internal/app"
	"pubquiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and relays actions and events for one client. Every
// connection gets its own client id; playerJoin binds it to a player name.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	clientID := uuid.NewString()
	updates, cancel := h.service.Subscribe(clientID)
	defer cancel()
	defer h.service.Disconnect(r.Context(), clientID)

	send := make(chan domain.Message, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches the connection for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- update:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var inbound domain.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			send <- errorMessage("invalid message")
			continue
		}
		if err := h.service.Dispatch(r.Context(), clientID, inbound); err != nil {
			if !errors.Is(err, domain.ErrUnknownAction) {
				log.Printf("dispatch %s: %v", inbound.Type, err)
			}
			send <- errorMessage(err.Error())
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func errorMessage(msg string) domain.Message {
	return domain.Broadcast(domain.EventError, domain.ErrorPayload{Message: msg})
}
