package libemit

import "fmt"

// Events emitted by the websocket bridge.
const (
	EventOpen    = "open"
	EventMessage = "message"
	EventBinary  = "binary"
	EventPing    = "ping"
	EventPong    = "pong"
	EventClose   = "close"
)

// MessageType mirrors the websocket frame opcodes.
type MessageType byte

const (
	DataMessage   MessageType = 1
	BinaryMessage MessageType = 2
	CloseMessage  MessageType = 8
	PingMessage   MessageType = 9
	PongMessage   MessageType = 10
)

// Event returns the event name frames of this type are emitted under.
func (t MessageType) Event() string {
	switch t {
	case DataMessage:
		return EventMessage
	case BinaryMessage:
		return EventBinary
	case CloseMessage:
		return EventClose
	case PingMessage:
		return EventPing
	case PongMessage:
		return EventPong
	default:
		return ""
	}
}

func (t MessageType) IsControl() bool {
	return t == CloseMessage || t == PingMessage || t == PongMessage
}

type Message interface {
	Type() MessageType
	Data() []byte
	String() string
}

type message struct {
	MessageType MessageType
	MessageData []byte
}

func (m message) Type() MessageType {
	return m.MessageType
}

func (m message) Data() []byte {
	return m.MessageData
}

func (m message) String() string {
	return fmt.Sprintf("Message{type=%s,data=%s}", m.MessageType.Event(), m.MessageData)
}

// CloseFrame is the message emitted with EventClose.
type CloseFrame struct {
	message
	Code int
}

func (m CloseFrame) String() string {
	return fmt.Sprintf("Message{type=%s,code=%d,data=%s}", m.Type().Event(), m.Code, m.Data())
}

func NewMessage(mt MessageType, data []byte) Message {
	return message{MessageType: mt, MessageData: data}
}

func NewDataMessage(data []byte) Message {
	return NewMessage(DataMessage, data)
}

func NewBinaryMessage(data []byte) Message {
	return NewMessage(BinaryMessage, data)
}

func NewPingMessage(data []byte) Message {
	return NewMessage(PingMessage, data)
}

func NewPongMessage(data []byte) Message {
	return NewMessage(PongMessage, data)
}

func NewCloseMessage(code int, data []byte) CloseFrame {
	return CloseFrame{
		message: message{MessageType: CloseMessage, MessageData: data},
		Code:    code,
	}
}
