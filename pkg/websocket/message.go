package websocket

import "time"

const MessageTypeToast = "toast"

// Envelope: тип конверта подсказывает клиенту, как его обработать.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ToastPayload: состояние тоста сессии.
type ToastPayload struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Visible bool   `json:"visible"`
}
