package app

import "pubquiz-service/internal/domain"

const subscriberBuffer = 64

// hub fans messages out to subscriber channels. It is only used under QuizService.mu,
// which keeps delivery order identical to the order mutations were applied.
type hub struct {
	subscribers map[string]chan domain.Message
}

func newHub() *hub {
	return &hub{subscribers: make(map[string]chan domain.Message)}
}

func (h *hub) add(clientID string, initial []domain.Message) chan domain.Message {
	if old, ok := h.subscribers[clientID]; ok {
		close(old)
	}
	ch := make(chan domain.Message, subscriberBuffer)
	h.subscribers[clientID] = ch
	for _, msg := range initial {
		deliver(ch, msg)
	}
	return ch
}

func (h *hub) remove(clientID string, ch chan domain.Message) {
	if cur, ok := h.subscribers[clientID]; ok && cur == ch {
		delete(h.subscribers, clientID)
		close(ch)
	}
}

func (h *hub) publish(msgs []domain.Message) {
	for _, msg := range msgs {
		if msg.Recipient != "" {
			if ch, ok := h.subscribers[msg.Recipient]; ok {
				deliver(ch, msg)
			}
			continue
		}
		for _, ch := range h.subscribers {
			deliver(ch, msg)
		}
	}
}

func deliver(ch chan domain.Message, msg domain.Message) {
	select {
	case ch <- msg:
	default:
		// Slow subscriber: drop its oldest message; it can resync from the next snapshot.
		select {
		case <-ch:
		default:
		}
		ch <- msg
	}
}
