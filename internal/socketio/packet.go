package socketio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Engine.IO packet types.
const (
	eioOpen    byte = '0'
	eioClose   byte = '1'
	eioPing    byte = '2'
	eioPong    byte = '3'
	eioMessage byte = '4'
	eioNoop    byte = '6'
)

// Socket.IO packet types, carried inside an Engine.IO message.
const (
	sioConnect      byte = '0'
	sioDisconnect   byte = '1'
	sioEvent        byte = '2'
	sioAck          byte = '3'
	sioConnectError byte = '4'
)

type packetKind int

const (
	kindIgnore packetKind = iota
	kindOpen
	kindClose
	kindPing
	kindPong
	kindConnect
	kindDisconnect
	kindConnectError
	kindEvent
)

// packet is one decoded frame.
type packet struct {
	kind    packetKind
	name    string
	payload json.RawMessage
}

// handshake is the Engine.IO open packet body.
type handshake struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

// keepAlive is how long the connection may stay silent before the server is
// considered gone.
func (h handshake) keepAlive() time.Duration {
	return time.Duration(h.PingInterval+h.PingTimeout) * time.Millisecond
}

var (
	connectFrame    = []byte{eioMessage, sioConnect}
	disconnectFrame = []byte{eioMessage, sioDisconnect}
	pongFrame       = []byte{eioPong}
)

func encodeEvent(name string, payload any) ([]byte, error) {
	args := []any{name}
	if payload != nil {
		args = append(args, payload)
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	return append([]byte{eioMessage, sioEvent}, body...), nil
}

func decodePacket(data []byte) (packet, error) {
	if len(data) == 0 {
		return packet{}, fmt.Errorf("empty frame")
	}

	switch data[0] {
	case eioOpen:
		return packet{kind: kindOpen, payload: json.RawMessage(data[1:])}, nil
	case eioClose:
		return packet{kind: kindClose}, nil
	case eioPing:
		return packet{kind: kindPing}, nil
	case eioPong:
		return packet{kind: kindPong}, nil
	case eioNoop:
		return packet{kind: kindIgnore}, nil
	case eioMessage:
		return decodeMessage(data[1:])
	default:
		return packet{}, fmt.Errorf("unknown engine packet type %q", data[0])
	}
}

func decodeMessage(data []byte) (packet, error) {
	if len(data) == 0 {
		return packet{}, fmt.Errorf("empty message")
	}
	typ, body := data[0], stripNamespace(data[1:])

	switch typ {
	case sioConnect:
		return packet{kind: kindConnect, payload: json.RawMessage(body)}, nil
	case sioDisconnect:
		return packet{kind: kindDisconnect}, nil
	case sioConnectError:
		return packet{kind: kindConnectError, payload: json.RawMessage(body)}, nil
	case sioAck:
		return packet{kind: kindIgnore}, nil
	case sioEvent:
		body = bytes.TrimLeft(body, "0123456789")
		var args []json.RawMessage
		if err := json.Unmarshal(body, &args); err != nil {
			return packet{}, fmt.Errorf("decoding event: %w", err)
		}
		if len(args) == 0 {
			return packet{}, fmt.Errorf("event without name")
		}
		var name string
		if err := json.Unmarshal(args[0], &name); err != nil {
			return packet{}, fmt.Errorf("decoding event name: %w", err)
		}
		p := packet{kind: kindEvent, name: name}
		if len(args) > 1 {
			p.payload = args[1]
		}
		return p, nil
	default:
		return packet{}, fmt.Errorf("unknown socket packet type %q", typ)
	}
}

// stripNamespace drops a "/nsp," prefix. Only the default namespace is used.
func stripNamespace(body []byte) []byte {
	if len(body) == 0 || body[0] != '/' {
		return body
	}
	if i := bytes.IndexByte(body, ','); i >= 0 {
		return body[i+1:]
	}
	return nil
}
