// Package digitizer reads clicks and commands from an external pointing
// device over a serial line or TCP.
package digitizer

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"chartmeasure/config"
	"chartmeasure/event"

	"github.com/rs/zerolog/log"
)

// Client represents an active connection to a digitizer
type Client struct {
	conn io.ReadWriteCloser
}

// NewClient wraps an already open connection.
func NewClient(conn io.ReadWriteCloser) *Client {
	return &Client{conn: conn}
}

// Connect opens the digitizer described by conf
func Connect(conf config.DigitizerConfig) (*Client, error) {
	dlog := log.With().Str("module", "digitizer").Logger()
	dlog.Info().Str("type", conf.Type).Str("device", conf.Device).Msg("connecting")

	switch strings.ToLower(conf.Type) {
	case "serial":
		conn, err := connectSerial(conf.Device, conf.Baud)
		if err != nil {
			return nil, err
		}
		dlog.Info().Int("baud", conf.Baud).Msg("serial digitizer connected")
		return NewClient(conn), nil

	case "tcp":
		conn, err := connectTCP(conf.Device)
		if err != nil {
			return nil, err
		}
		dlog.Info().Str("remote", conn.RemoteAddr().String()).Msg("TCP digitizer connected")
		return NewClient(conn), nil
	}
	return nil, fmt.Errorf("unknown digitizer type: %s", conf.Type)
}

// Start reads events until the connection ends, sending each one down
// eventChan. Undecodable lines are logged and skipped. eventChan is closed
// on return. Run it as a goroutine.
func (c *Client) Start(eventChan chan<- *event.Event) {
	dlog := log.With().Str("module", "digitizer").Logger()
	defer close(eventChan)

	decoder := NewDecoder(c.conn)
	for {
		ev, err := decoder.ReadEvent()
		if err == nil {
			eventChan <- ev
			continue
		}
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
			dlog.Info().Msg("digitizer connection closed")
			return
		}
		var lineErr *LineError
		if errors.As(err, &lineErr) {
			dlog.Warn().Err(err).Msg("skipping digitizer line")
			continue
		}
		dlog.Error().Err(err).Msg("digitizer read failed")
		return
	}
}

// Close disconnects the client
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
