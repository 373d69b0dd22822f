package models

import "encoding/json"

// WebSocket message types
const (
	MessageSensorData      = "sensorData"
	MessagePing            = "ping"
	MessagePong            = "pong"
	MessageCommand         = "command"
	MessageCommandResponse = "commandResponse"
	MessageSystemStatus    = "systemStatus"
	MessageNotification    = "notification"
	MessageError           = "error"
)

// Message is the {type, data} envelope sent to WebSocket clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// InboundMessage keeps the payload raw until the type is known.
type InboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type PingPayload struct {
	Timestamp json.RawMessage `json:"timestamp"`
}

// CommandPayload addresses an actuator: target is pump or light.
type CommandPayload struct {
	Target string `json:"target"`
	Action string `json:"action"`
}

type CommandResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Target  string `json:"target"`
	Action  string `json:"action"`
}

type SystemStatus struct {
	ServerTime        string `json:"serverTime"`
	ActiveConnections int    `json:"activeConnections"`
	SystemStatus      string `json:"systemStatus"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
