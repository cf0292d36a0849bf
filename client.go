package main

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
)

// Client represents a WebSocket connection. A desktop client owns one
// session; a phone controller drives someone else's.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	session  *Session // owned, nil once this client became a controller
	controls *Session // driven as a controller
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// Open creates the client's session and greets it
func (c *Client) Open() error {
	sess, err := c.hub.sessions.CreateSession(c)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return err
	}
	c.session = sess
	log.Printf("session %s opened for %s", sess.ID, c.remoteAddr)
	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{SID: sess.ID}})
	return nil
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// State frames carry the binary marker
			var err error
			if len(message) > 0 && message[0] == binaryStateMarker {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled bytes; frames from EncodeFrame go out as binary
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

func (c *Client) sendError(err error) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
}

// target is the session that input from this connection drives
func (c *Client) target() *Session {
	if c.controls != nil {
		return c.controls
	}
	return c.session
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgControl:
		c.handleControl(env.D)
		return
	case MsgBestiary:
		c.SendJSON(Envelope{T: MsgBestiary, Data: Bestiary()})
		return
	}

	sess := c.target()
	if sess == nil {
		return
	}

	// A controller only moves and dashes
	if c.controls != nil && env.T != MsgInput && env.T != MsgDash {
		return
	}

	switch env.T {
	case MsgInput:
		var in ClientInput
		if err := json.Unmarshal(env.D, &in); err != nil {
			return
		}
		sess.Input(in.Keys())
	case MsgResize:
		var msg ResizeMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		sess.Resize(msg.W, msg.H)
	case MsgDash:
		sess.Dash()
	case MsgStart:
		sess.Start()
	case MsgShop:
		sess.ToggleShop()
	case MsgBuy:
		var msg BuyMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if err := sess.Buy(msg.ID); err != nil {
			c.sendError(err)
		}
	case MsgPause:
		sess.Pause()
	case MsgResume:
		sess.Resume()
	case MsgRestart:
		sess.Restart()
	case MsgGuest:
		sess.PlayAsGuest()
	case MsgCheck:
		var msg CredentialsMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		sess.CheckPseudo(msg.Pseudo)
	case MsgRegister:
		var msg CredentialsMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		sess.Register(msg.Pseudo, msg.PIN, msg.Confirm)
	case MsgLogin:
		var msg CredentialsMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		sess.Login(msg.Pseudo, msg.PIN, c.remoteAddr)
	case MsgAuth:
		var msg AuthMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if err := sess.ResumeToken(msg.Token); err != nil {
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		}
	case MsgProfile:
		if err := sess.RequestStats(); err != nil {
			c.sendError(err)
		}
	case MsgLeaderboard:
		var req LeaderboardReq
		if len(env.D) > 0 {
			if err := json.Unmarshal(env.D, &req); err != nil {
				return
			}
		}
		sess.RequestLeaderboard(req.Key, req.Limit)
	case MsgChat:
		var msg ChatReq
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if err := sess.PostChat(msg.Text); err != nil {
			c.sendError(err)
		}
	}
}

var errSessionNotFound = errors.New("session not found")

// handleControl turns this connection into a controller for another session.
// Its own session is closed.
func (c *Client) handleControl(data json.RawMessage) {
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil || sess == c.session {
		c.sendError(errSessionNotFound)
		return
	}

	if c.controls != nil && c.controls != sess {
		c.controls.DetachController(c)
	}
	if c.session != nil {
		c.hub.sessions.RemoveSession(c.session.ID)
		c.session = nil
	}
	c.controls = sess
	sess.AttachController(c)
	c.SendJSON(Envelope{T: MsgControlOK, Data: map[string]string{"sid": sess.ID}})
}
