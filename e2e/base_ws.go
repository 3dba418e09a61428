package e2e

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

const readTimeout = 5 * time.Second

type BaseWsSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseWsSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ArenaAddr == "" {
		s.T().Skip("ARENA_ADDR not set, skipping end-to-end suite")
	}
}

// Frame is one message in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client is a logged websocket peer of the arena.
type Client struct {
	suite *BaseWsSuite
	name  string
	conn  *websocket.Conn
}

// Dial opens a websocket connection with a colorized header in the logs.
func (s *BaseWsSuite) Dial(name string) *Client {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	u := url.URL{Scheme: "ws", Host: s.Config.ArenaAddr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	s.Require().NoError(err, "Failed to connect to arena at "+u.String())
	return &Client{suite: s, name: name, conn: conn}
}

func (c *Client) Close() {
	_ = c.conn.Close()
}

// Send writes one event frame.
func (c *Client) Send(event string, data any) {
	raw, err := json.Marshal(data)
	c.suite.Require().NoError(err)
	if c.suite.Config.DebugJSON {
		c.suite.T().Logf("%s -> %s %s", c.name, event, raw)
	}
	c.suite.Require().NoError(c.conn.WriteJSON(Frame{Event: event, Data: raw}))
}

// Expect reads frames until the named event arrives and decodes its data into out.
func (c *Client) Expect(event string, out any) {
	deadline := time.Now().Add(readTimeout)
	for {
		_ = c.conn.SetReadDeadline(deadline)
		var frame Frame
		err := c.conn.ReadJSON(&frame)
		c.suite.Require().NoError(err, "%s waiting for %s", c.name, event)
		if c.suite.Config.DebugJSON {
			c.suite.T().Logf("%s <- %s %s", c.name, frame.Event, frame.Data)
		}
		if frame.Event != event {
			continue
		}
		if out != nil {
			c.suite.Require().NoError(json.Unmarshal(frame.Data, out))
		}
		return
	}
}
