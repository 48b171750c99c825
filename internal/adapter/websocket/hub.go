package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
	"github.com/seu-repo/pictovoz/pkg/pcm"
)

// ErrNoListeners is returned by Play when no board is connected.
var ErrNoListeners = errors.New("no playback clients connected")

// Message is the JSON frame pushed to boards.
type Message struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	WAV        string `json:"wav,omitempty"`
}

const (
	MessageAudio = "audio"
	MessageSpeak = "speak"
)

// conn is the subset of *websocket.Conn the hub drives.
type conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans playback frames out to every connected board. It implements
// ports.AudioSink for AI voice buffers and ports.LocalSpeaker for text the
// board should speak with its own synthesizer.
type Hub struct {
	// Registered clients. Owned by Run.
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	count atomic.Int64
	log   *zap.Logger
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn conn
	// Buffered channel of outbound messages.
	send chan []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run owns the client set until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			telemetry.PlaybackClients.Inc()
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.log.Warn("Playback client too slow, dropping")
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.count.Add(-1)
	telemetry.PlaybackClients.Dec()
}

// Clients is the number of connected boards.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Play pushes a decoded buffer to every board as a WAV file.
func (h *Hub) Play(ctx context.Context, audio *domain.DecodedAudio) error {
	if audio == nil || audio.Frames() == 0 {
		return errors.New("empty audio buffer")
	}
	if h.Clients() == 0 {
		return ErrNoListeners
	}

	return h.send(ctx, Message{
		Type:       MessageAudio,
		SampleRate: audio.SampleRate,
		Channels:   audio.ChannelCount,
		DurationMs: audio.Duration().Milliseconds(),
		WAV:        base64.StdEncoding.EncodeToString(pcm.EncodeWAV(audio)),
	})
}

// Speak asks every board to read text aloud locally. It does not wait.
func (h *Hub) Speak(ctx context.Context, text string) {
	if h.Clients() == 0 {
		h.log.Debug("No playback clients for local speech")
		return
	}
	if err := h.send(ctx, Message{Type: MessageSpeak, Text: text}); err != nil {
		h.log.Warn("Failed to queue local speech", zap.Error(err))
	}
}

func (h *Hub) send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrNoListeners
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddClient registers conn and blocks until it disconnects. Fiber's
// websocket handler must not return while the connection is in use.
func (h *Hub) AddClient(conn conn) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 32)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		// Boards only listen; reads keep control frames flowing.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Register mounts the playback socket at path.
func (h *Hub) Register(app *fiber.App, path string) {
	app.Use(path, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get(path, websocket.New(func(c *websocket.Conn) {
		h.log.Info("Playback client connected", zap.String("remote", c.RemoteAddr().String()))
		h.AddClient(c)
	}))
}
