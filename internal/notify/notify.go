package notify

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"sync"
)

const (
	RegisterMessageType = "register"
	NoticeMessageType   = "notice"
)

const (
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// RegisterMessage is sent by a client to subscribe its cart session to
// notices.
type RegisterMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// NoticeMessage mirrors the storefront's toast notifications: a level and
// a short human-readable message.
type NoticeMessage struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Client struct {
	SessionID string
	Addr      *net.UDPAddr
}

type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

func (r *Registry) Register(sessionID string, addr *net.UDPAddr) {
	if sessionID == "" || addr == nil {
		return
	}
	r.mu.Lock()
	r.clients[sessionID] = Client{SessionID: sessionID, Addr: addr}
	r.mu.Unlock()
}

func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	delete(r.clients, sessionID)
	r.mu.Unlock()
}

func (r *Registry) Lookup(sessionID string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[sessionID]
	return c, ok
}

func (r *Registry) Snapshot() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	return clients
}

// Server pushes notices over UDP to registered cart sessions. Delivery is
// best effort: one retry, then the client is dropped.
type Server struct {
	addr     string
	registry *Registry
	logger   *log.Logger

	mu   sync.Mutex
	conn *net.UDPConn
}

func NewServer(addr string, registry *Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{addr: addr, registry: registry, logger: logger}
}

func (s *Server) Run() error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	s.setConn(conn)
	defer conn.Close()

	s.logger.Printf("[notify] UDP server listening on %s", s.addr)

	buffer := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			return err
		}
		msg, err := parseRegisterMessage(buffer[:n])
		if err != nil {
			s.logger.Printf("[notify] invalid UDP message from %s: %v", addr, err)
			continue
		}
		if msg.Type != RegisterMessageType {
			continue
		}
		s.registry.Register(msg.SessionID, addr)
		s.logger.Printf("[notify] registered session %s (%s)", msg.SessionID, addr)
	}
}

// setConn publishes the bound socket; notices sent before Run has bound
// one are dropped.
func (s *Server) setConn(conn *net.UDPConn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *Server) udpConn() *net.UDPConn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Notify pushes one notice to the client registered for the session, if
// any. Sessions with no registered client simply miss the toast.
func (s *Server) Notify(sessionID, level, message string) {
	conn := s.udpConn()
	if conn == nil {
		return
	}
	client, ok := s.registry.Lookup(sessionID)
	if !ok {
		return
	}

	payload, err := json.Marshal(NoticeMessage{
		Type:    NoticeMessageType,
		Level:   level,
		Message: message,
	})
	if err != nil {
		s.logger.Printf("[notify] marshal notice: %v", err)
		return
	}
	s.sendWithRetry(conn, client, payload)
}

// Broadcast pushes one notice to every registered client.
func (s *Server) Broadcast(level, message string) {
	conn := s.udpConn()
	if conn == nil {
		return
	}
	payload, err := json.Marshal(NoticeMessage{
		Type:    NoticeMessageType,
		Level:   level,
		Message: message,
	})
	if err != nil {
		s.logger.Printf("[notify] marshal notice: %v", err)
		return
	}
	for _, client := range s.registry.Snapshot() {
		s.sendWithRetry(conn, client, payload)
	}
}

func (s *Server) sendWithRetry(conn *net.UDPConn, client Client, payload []byte) {
	if err := sendOnce(conn, client, payload); err == nil {
		return
	}
	if err := sendOnce(conn, client, payload); err != nil {
		s.logger.Printf("[notify] failed to reach session %s at %s: %v", client.SessionID, client.Addr, err)
		s.registry.Remove(client.SessionID)
	}
}

func sendOnce(conn *net.UDPConn, client Client, payload []byte) error {
	if client.Addr == nil {
		return errors.New("missing client address")
	}
	_, err := conn.WriteToUDP(payload, client.Addr)
	return err
}

func parseRegisterMessage(data []byte) (RegisterMessage, error) {
	var msg RegisterMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	if msg.SessionID == "" || msg.Type == "" {
		return msg, errors.New("missing required fields")
	}
	return msg, nil
}
