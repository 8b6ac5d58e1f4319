//go:build !tinygo

package display

import (
	"context"
	_ "embed"
	"encoding/binary"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chzchzchz/iqfall/waterfall"
)

//go:embed index.html
var indexHTML []byte

const frameHeaderLen = 4

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// writePump pumps frames from the hub to the websocket connection.
func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// WebSocket serves a page that draws frames pushed over a websocket. Each
// message is a big-endian width and height followed by the RGB565 image.
// Slow clients drop frames.
type WebSocket struct {
	addr     string
	srv      *http.Server
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	last    []byte
	rot     []byte
	ready   bool
}

func NewWebSocket(addr string) *WebSocket {
	return &WebSocket{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 65536,
		},
		clients: make(map[*wsClient]struct{}),
	}
}

func (ws *WebSocket) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && r.URL.Path != "/index.html" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write(indexHTML)
	})
	mux.HandleFunc("/ws", ws.serveWS)
	return mux
}

func (ws *WebSocket) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, 8)}
	ws.mu.Lock()
	ws.clients[c] = struct{}{}
	if ws.last != nil {
		c.send <- ws.last
	}
	ws.mu.Unlock()
	log.Println("client connected", conn.RemoteAddr())
	go c.writePump()

	defer func() {
		ws.mu.Lock()
		if _, ok := ws.clients[c]; ok {
			delete(ws.clients, c)
			close(c.send)
		}
		ws.mu.Unlock()
		log.Println("client disconnected", conn.RemoteAddr())
	}()
	// Drain reads so control frames and closes are handled.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Init starts serving on the configured address. With an empty address
// only Handler is usable.
func (ws *WebSocket) Init(o Orientation) error {
	ws.ready = true
	if ws.addr == "" {
		return nil
	}
	l, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return err
	}
	ws.srv = &http.Server{Handler: ws.Handler()}
	log.Printf("waterfall on http://%s", l.Addr())
	go func() {
		if err := ws.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("http:", err)
		}
	}()
	return nil
}

func (ws *WebSocket) broadcast(img []byte, w, h int) {
	msg := make([]byte, frameHeaderLen+len(img))
	binary.BigEndian.PutUint16(msg[0:], uint16(w))
	binary.BigEndian.PutUint16(msg[2:], uint16(h))
	copy(msg[frameHeaderLen:], img)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.last = msg
	for c := range ws.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (ws *WebSocket) Clear(c waterfall.Color) error {
	if !ws.ready {
		return ErrNotInitialized
	}
	ws.mu.Lock()
	ws.last = nil
	ws.mu.Unlock()
	return nil
}

func (ws *WebSocket) DisplayFull(fb *waterfall.Framebuffer) error {
	if !ws.ready {
		return ErrNotInitialized
	}
	ws.broadcast(fb.Buffer(), fb.Width(), fb.Height())
	return nil
}

func (ws *WebSocket) DisplayRotated(fb *waterfall.Framebuffer, seam int) error {
	if !ws.ready {
		return ErrNotInitialized
	}
	if err := checkSeam(fb, seam); err != nil {
		return err
	}
	ws.rot = waterfall.Rotate(ws.rot, fb.Buffer(), fb.Width()*waterfall.BytesPerPixel, seam)
	ws.broadcast(ws.rot, fb.Width(), fb.Height())
	return nil
}

func (ws *WebSocket) Close() error {
	ws.ready = false
	ws.mu.Lock()
	for c := range ws.clients {
		delete(ws.clients, c)
		close(c.send)
	}
	ws.mu.Unlock()
	if ws.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return ws.srv.Shutdown(ctx)
}
