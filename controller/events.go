package controller

import (
	"net/http"
	"time"

	"github.com/ezlinkai/campaign-studio/animatic"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	eventWriteWait  = 10 * time.Second
	eventPongWait   = 60 * time.Second
	eventPingPeriod = eventPongWait * 9 / 10
	playerWatch     = 500 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type eventMessage struct {
	Type     string          `json:"type"`
	Event    *model.Event    `json:"event,omitempty"`
	Campaign *model.Campaign `json:"campaign,omitempty"`
	Animatic *animatic.State `json:"animatic,omitempty"`
}

// playerFeed follows whichever player is currently open in the studio.
type playerFeed struct {
	player *animatic.Player
	states <-chan animatic.State
	cancel func()
}

func (f *playerFeed) sync() (changed bool) {
	current, _ := studio.Player()
	if current == f.player {
		return false
	}
	f.stop()
	f.player = current
	if current != nil {
		f.states, f.cancel = current.Subscribe(16)
	}
	return true
}

func (f *playerFeed) stop() {
	if f.cancel != nil {
		f.cancel()
	}
	f.player, f.states, f.cancel = nil, nil, nil
}

// StreamEvents upgrades to a websocket and pushes campaign events and
// animatic player states until the client goes away.
func StreamEvents(c *gin.Context) {
	ctx := c.Request.Context()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(ctx, "websocket upgrade failed: "+err.Error())
		return
	}
	defer conn.Close()

	events, cancel := studio.Store.Subscribe(64)
	defer cancel()
	feed := &playerFeed{}
	defer feed.stop()

	done := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(eventPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventPongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(msg eventMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Warn(ctx, "websocket write failed: "+err.Error())
			return false
		}
		return true
	}

	if !write(eventMessage{Type: "snapshot", Campaign: studio.Store.Snapshot()}) {
		return
	}
	ping := time.NewTicker(eventPingPeriod)
	defer ping.Stop()
	watch := time.NewTicker(playerWatch)
	defer watch.Stop()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if !write(eventMessage{Type: "event", Event: &event}) {
				return
			}
		case state, ok := <-feed.states:
			if !ok {
				feed.stop()
				continue
			}
			if !write(eventMessage{Type: "animatic", Animatic: &state}) {
				return
			}
		case <-watch.C:
			if feed.sync() && feed.player != nil {
				state := feed.player.State()
				if !write(eventMessage{Type: "animatic", Animatic: &state}) {
					return
				}
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
