package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cgf-quiz/internal/app"
	"cgf-quiz/internal/domain"
	"github.com/gorilla/websocket"
)

// Handler exposes one Controller over a websocket action channel and a few
// plain HTTP endpoints. Every action holds mu until it completes.
type Handler struct {
	mu       sync.Mutex
	ctrl     *app.Controller
	logger   *slog.Logger
	now      func() time.Time
	upgrader websocket.Upgrader
}

func NewHandler(ctrl *app.Controller, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ctrl:   ctrl,
		logger: logger,
		now:    time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type categoryPayload struct {
	Category string `json:"category"`
}

type answerPayload struct {
	Choice *int `json:"choice"`
}

type positionPayload struct {
	Position *int `json:"position"`
}

type limitPayload struct {
	Limit int `json:"limit"`
}

type importPayload struct {
	Questions json.RawMessage `json:"questions"`
}

type clearPayload struct {
	Confirmed   bool `json:"confirmed"`
	Reconfirmed bool `json:"reconfirmed"`
}

type reviewPayload struct {
	Result *domain.Result      `json:"result,omitempty"`
	Items  []domain.ReviewItem `json:"items"`
}

var errBadPayload = errors.New("invalid payload")

// ServeWS upgrades the request and runs actions until the client disconnects.
// The first message is the current state.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("ws write failed", "error", err)
				return
			}
		}
	}()

	h.mu.Lock()
	state := h.ctrl.Snapshot()
	h.mu.Unlock()
	send <- outboundMessage[any]{Type: "state", Payload: state}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		typ, payload, err := h.Dispatch(r.Context(), inbound.Type, inbound.Payload)
		if err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			continue
		}
		send <- outboundMessage[any]{Type: typ, Payload: payload}
	}

	close(send)
	<-writerDone
}

// Dispatch runs one action and returns the reply type and payload. Mutating
// actions reply with an "outcome"; queries reply with their own type.
func (h *Handler) Dispatch(ctx context.Context, action string, raw json.RawMessage) (string, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch action {
	case "state":
		return "state", h.ctrl.Snapshot(), nil
	case "chooseCategory":
		var p categoryPayload
		if err := decode(raw, &p); err != nil {
			return "", nil, err
		}
		return "outcome", h.ctrl.ChooseCategory(p.Category), nil
	case "startQuiz":
		return "outcome", h.ctrl.StartQuiz(), nil
	case "answer":
		var p answerPayload
		if err := decode(raw, &p); err != nil || p.Choice == nil {
			return "", nil, errBadPayload
		}
		return "outcome", h.ctrl.Answer(*p.Choice), nil
	case "next":
		return "outcome", h.ctrl.Next(), nil
	case "previous":
		return "outcome", h.ctrl.Previous(), nil
	case "submit":
		return "outcome", h.ctrl.Submit(ctx), nil
	case "retake":
		return "outcome", h.ctrl.Retake(), nil
	case "history":
		var p limitPayload
		if err := decode(raw, &p); err != nil {
			return "", nil, err
		}
		return "history", h.ctrl.History(p.Limit), nil
	case "review":
		items, ok := h.ctrl.Review()
		if !ok {
			return "review", reviewPayload{Items: []domain.ReviewItem{}}, nil
		}
		latest := h.ctrl.Snapshot().LatestResult
		return "review", reviewPayload{Result: latest, Items: items}, nil
	case "addQuestion":
		var in domain.QuestionInput
		if err := decode(raw, &in); err != nil {
			return "", nil, err
		}
		return "outcome", h.ctrl.AddQuestion(ctx, in), nil
	case "filterQuestions":
		var p categoryPayload
		if err := decode(raw, &p); err != nil {
			return "", nil, err
		}
		return "outcome", h.ctrl.FilterQuestions(p.Category), nil
	case "adminView":
		return "adminView", h.ctrl.AdminView(), nil
	case "deleteQuestion":
		var p positionPayload
		if err := decode(raw, &p); err != nil || p.Position == nil {
			return "", nil, errBadPayload
		}
		return "outcome", h.ctrl.DeleteQuestion(ctx, *p.Position), nil
	case "importQuestions":
		var p importPayload
		if err := decode(raw, &p); err != nil {
			return "", nil, err
		}
		return "outcome", h.ctrl.ImportQuestions(ctx, p.Questions), nil
	case "resetQuestions":
		return "outcome", h.ctrl.ResetQuestions(ctx), nil
	case "clearAll":
		var p clearPayload
		if err := decode(raw, &p); err != nil {
			return "", nil, err
		}
		return "outcome", h.ctrl.ClearAll(ctx, p.Confirmed, p.Reconfirmed), nil
	default:
		return "", nil, errors.New("unsupported message type")
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}
