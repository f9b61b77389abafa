package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// DefaultURL is the sniffer push channel endpoint.
const DefaultURL = "ws://localhost:5000/ws"

// ErrChannelClosed is returned by Run when the server drops the push channel.
// There is no reconnect: updates stop until the application is restarted.
var ErrChannelClosed = errors.New("push channel closed")

// PacketRecorder counts consumed push channel messages.
type PacketRecorder interface {
	PacketReceived()
	PacketDropped()
}

type nopPacketRecorder struct{}

func (nopPacketRecorder) PacketReceived() {}
func (nopPacketRecorder) PacketDropped()  {}

// Dial opens the push channel.
func Dial(ctx context.Context, url string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("can't dial push channel: %w", err)
	}
	return conn, nil
}

// NewSubscriber creates and returns push channel consumer feeding agg.
// notify receives statistics after every consumed event; it must not block.
func NewSubscriber(conn *websocket.Conn, agg *Aggregator, notify func(Stats), logger *log.Logger) *Subscriber {
	if notify == nil {
		notify = func(Stats) {}
	}
	return &Subscriber{
		conn:     conn,
		agg:      agg,
		notify:   notify,
		logger:   logger,
		recorder: nopPacketRecorder{},
	}
}

// Subscriber consumes packet events from the push channel.
type Subscriber struct {
	conn     *websocket.Conn
	agg      *Aggregator
	notify   func(Stats)
	logger   *log.Logger
	recorder PacketRecorder
}

// SetRecorder sets consumed messages recorder.
func (s *Subscriber) SetRecorder(recorder PacketRecorder) {
	s.recorder = recorder
}

// Run reads events until ctx is cancelled or the channel drops. The
// connection is always closed on return.
func (s *Subscriber) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.close()
		case <-done:
		}
	}()
	defer s.conn.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.WithError(err).Warn("Push channel closed")
			s.agg.MarkClosed()
			s.notify(s.agg.Stats())
			return fmt.Errorf("%w: %v", ErrChannelClosed, err)
		}

		ev, err := DecodeEvent(data)
		if err != nil {
			s.logger.WithError(err).Debug("Dropping malformed packet event")
			s.recorder.PacketDropped()
			continue
		}

		s.agg.Add(ev)
		s.recorder.PacketReceived()
		s.notify(s.agg.Stats())
	}
}

func (s *Subscriber) close() {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		s.logger.WithError(err).Debug("Push channel close frame failed")
	}
	s.conn.Close()
}
