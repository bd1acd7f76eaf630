package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"price-chart/logging"
	"price-chart/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const streamPath = "/ws/series"

type SeriesHandler func(*models.SeriesMessage)

// Watcher subscribes to the series push channel and hands every frame to its handlers.
type Watcher struct {
	url      string
	conn     *websocket.Conn
	handlers []SeriesHandler
	log      *logrus.Entry
}

// NewWatcher takes the same http(s) base URL as New.
func NewWatcher(baseURL string, logger logrus.FieldLogger) (*Watcher, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	u.Path += streamPath

	return &Watcher{
		url:      u.String(),
		handlers: make([]SeriesHandler, 0),
		log:      logging.Component(logger, "watcher"),
	}, nil
}

func (w *Watcher) AddHandler(handler SeriesHandler) {
	w.handlers = append(w.handlers, handler)
}

func (w *Watcher) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", w.url, err)
	}

	w.conn = conn
	w.log.WithField("url", w.url).Info("Connected to series stream")
	return nil
}

func (w *Watcher) Subscribe(req models.SubscribeRequest) error {
	if w.conn == nil {
		return fmt.Errorf("not connected")
	}
	req.Type = models.MessageSubscribe
	return w.conn.WriteJSON(req)
}

// Listen dispatches frames until the connection fails or ctx is done.
func (w *Watcher) Listen(ctx context.Context) error {
	if w.conn == nil {
		return fmt.Errorf("not connected")
	}
	defer w.conn.Close()

	stop := context.AfterFunc(ctx, func() { w.conn.Close() })
	defer stop()

	for {
		_, message, err := w.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read message: %w", err)
		}

		var msg models.SeriesMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			w.log.WithError(err).Warn("Error parsing series message")
			continue
		}

		for _, handler := range w.handlers {
			handler(&msg)
		}
	}
}

func (w *Watcher) Close() error {
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}
