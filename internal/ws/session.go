package ws

import (
	"context"
	"log"
	"sync"

	"roomchat-service/internal/auth"
	"roomchat-service/internal/models"
	"roomchat-service/internal/observability"
	"roomchat-service/internal/repositories"
)

// transport is the subset of *websocket.Conn the session needs. Tests plug
// in a fake implementation.
type transport interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

type sessionState int

const (
	stateConnecting sessionState = iota
	stateOpen
	stateClosed
)

// outboundQueueSize bounds the per-session FIFO queue. A session that cannot
// drain this many pending frames is treated as failed.
const outboundQueueSize = 64

// outbound is one entry in the per-session FIFO queue: either a direct reply
// already in wire shape, or a room event rendered per recipient.
type outbound struct {
	frame *models.ServerFrame
	event *models.RoomEvent
}

// Session is the server-side state for one connected client. Its room and
// identity are fixed for the connection's lifetime; a dropped connection
// requires a fresh session.
type Session struct {
	conn     transport
	hub      *Hub
	messages repositories.MessageRepository
	room     string
	identity auth.Identity
	info     ConnInfo
	onClose  func(reason string)

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state sessionState
	out   chan outbound

	closeOnce sync.Once
}

// NewSession builds a session in the CONNECTING state.
func NewSession(ctx context.Context, conn transport, hub *Hub, messages repositories.MessageRepository, room string, identity auth.Identity, info ConnInfo, onClose func(reason string)) *Session {
	sessionCtx, cancel := context.WithCancel(ctx)
	return &Session{
		conn:     conn,
		hub:      hub,
		messages: messages,
		room:     room,
		identity: identity,
		info:     info,
		onClose:  onClose,
		ctx:      sessionCtx,
		cancel:   cancel,
		state:    stateConnecting,
		out:      make(chan outbound, outboundQueueSize),
	}
}

// Open transitions the session to OPEN, registers it with the hub and starts
// the read and write loops. No-op unless the session is still CONNECTING.
func (s *Session) Open() {
	s.mu.Lock()
	if s.state != stateConnecting {
		s.mu.Unlock()
		return
	}
	s.state = stateOpen
	s.mu.Unlock()

	s.hub.Join(s.room, s)
	go s.writeLoop()
	go s.readLoop()
}

// Close moves the session to its terminal state: deregisters from the hub,
// closes the transport and stops both loops. Idempotent.
func (s *Session) Close(reason string) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = stateClosed
		close(s.out)
		s.mu.Unlock()

		s.cancel()
		s.hub.Leave(s.room, s)
		_ = s.conn.Close()
		if s.onClose != nil {
			s.onClose(reason)
		}
	})
}

// readLoop processes inbound frames strictly sequentially: one frame is fully
// handled, including its store mutation and broadcast, before the next is
// read. This preserves per-sender ordering.
func (s *Session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.Close(err.Error())
			return
		}
		in, err := parseIntent(data)
		if err != nil {
			log.Printf("dropping malformed frame conn=%s room=%s", s.info.ConnID, s.room)
			observability.IncWSEvent("room", "malformed_frame")
			continue
		}
		s.dispatch(in)
	}
}

// writeLoop drains the outbound queue in FIFO order. Room events are rendered
// here, in the recipient's context.
func (s *Session) writeLoop() {
	for o := range s.out {
		frame := o.frame
		if o.event != nil {
			rendered := s.renderEvent(*o.event)
			frame = &rendered
		}
		if err := s.conn.WriteJSON(frame); err != nil {
			log.Printf("websocket write error conn=%s: %v", s.info.ConnID, err)
			s.Close(err.Error())
		}
	}
}

func (s *Session) dispatch(in intent) {
	switch in.kind {
	case intentSend:
		s.handleSend(in.text)
	case intentRead:
		s.handleRead(in.messageID)
	case intentSearch:
		s.handleSearch(in.query)
	case intentEdit:
		s.handleEdit(in.messageID, in.newContent)
	case intentDelete:
		s.handleDelete(in.messageID)
	}
}

func (s *Session) handleSend(text string) {
	msg, err := s.messages.Create(s.ctx, s.room, s.identity.UserID, text)
	if err != nil {
		s.replyError(err)
		return
	}

	// Single tick to the sender, then the room-wide fan-out. Both go through
	// the sender's own FIFO queue, so the saved ack always precedes the
	// delivered event on the sender's connection.
	s.reply(&models.ServerFrame{
		Status:    models.StatusSaved,
		MessageID: msg.ID,
		Message:   msg.Content,
		Username:  s.identity.Username,
	})
	s.hub.Broadcast(s.room, models.RoomEvent{
		Kind:      models.EventMessageCreated,
		MessageID: msg.ID,
		Message:   msg.Content,
		Username:  s.identity.Username,
	})
}

func (s *Session) handleRead(messageID int) {
	if err := s.messages.MarkRead(s.ctx, messageID); err != nil {
		s.replyError(err)
		return
	}
	s.hub.Broadcast(s.room, models.RoomEvent{Kind: models.EventMessageRead, MessageID: messageID})
}

func (s *Session) handleSearch(query string) {
	msgs, err := s.messages.Search(s.ctx, s.room, query)
	if err != nil {
		s.replyError(err)
		return
	}

	results := make([]models.SearchResult, 0, len(msgs))
	for _, m := range msgs {
		results = append(results, models.SearchResult{
			ID:        m.ID,
			Username:  m.Username,
			Content:   m.Content,
			Timestamp: m.CreatedAt.Format(models.SearchTimeFormat),
			Delivered: m.Delivered,
			Read:      m.Read,
		})
	}
	s.reply(&models.ServerFrame{Status: models.StatusSearchResults, Query: query, Results: results})
}

func (s *Session) handleEdit(messageID int, newContent string) {
	msg, err := s.messages.UpdateContent(s.ctx, messageID, newContent)
	if err != nil {
		s.replyError(err)
		return
	}
	s.hub.Broadcast(s.room, models.RoomEvent{
		Kind:       models.EventMessageEdited,
		MessageID:  msg.ID,
		NewContent: msg.Content,
	})
}

func (s *Session) handleDelete(messageID int) {
	msg, err := s.messages.SoftDelete(s.ctx, messageID)
	if err != nil {
		s.replyError(err)
		return
	}
	s.hub.Broadcast(s.room, models.RoomEvent{Kind: models.EventMessageDeleted, MessageID: msg.ID})
}

// renderEvent turns a room event into the outbound frame for this recipient.
// For created events the recipient marks the message delivered; the first
// recipient to get here wins, later marks are no-ops since delivered is
// monotonic.
func (s *Session) renderEvent(ev models.RoomEvent) models.ServerFrame {
	switch ev.Kind {
	case models.EventMessageCreated:
		if err := s.messages.MarkDelivered(s.ctx, ev.MessageID); err != nil {
			log.Printf("mark delivered failed message_id=%d: %v", ev.MessageID, err)
		}
		return models.ServerFrame{
			Status:    models.StatusDelivered,
			MessageID: ev.MessageID,
			Message:   ev.Message,
			Username:  ev.Username,
		}
	case models.EventMessageRead:
		return models.ServerFrame{Status: models.StatusRead, MessageID: ev.MessageID}
	case models.EventMessageEdited:
		return models.ServerFrame{Status: models.StatusEdited, MessageID: ev.MessageID, NewContent: ev.NewContent}
	case models.EventMessageDeleted:
		return models.ServerFrame{Status: models.StatusDeleted, MessageID: ev.MessageID}
	}
	return models.ServerFrame{Status: models.StatusError, Error: "unknown event"}
}

// reply enqueues a direct frame for this session only. A session that cannot
// accept its own reply is failed, the same way Broadcast fails a session that
// cannot accept an event; the sender never loses an ack silently.
func (s *Session) reply(frame *models.ServerFrame) {
	if !s.enqueue(outbound{frame: frame}) {
		log.Printf("reply enqueue failed conn=%s status=%s", s.info.ConnID, frame.Status)
		s.Close("outbound queue unavailable")
	}
}

// replyError surfaces a store failure to the acting sender. Other sessions
// are never affected.
func (s *Session) replyError(err error) {
	s.reply(&models.ServerFrame{Status: models.StatusError, Error: err.Error()})
}

// enqueueEvent queues a room event for delivery. Returns false when the
// session is not OPEN or its queue is full.
func (s *Session) enqueueEvent(ev models.RoomEvent) bool {
	return s.enqueue(outbound{event: &ev})
}

func (s *Session) enqueue(o outbound) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateOpen {
		return false
	}
	select {
	case s.out <- o:
		return true
	default:
		return false
	}
}
