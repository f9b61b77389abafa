package stream

import (
	"encoding/json"
	"fmt"
	"time"
)

// PacketEvent is a captured 802.11 frame summary pushed by the sniffer.
type PacketEvent struct {
	Timestamp      float64 `json:"timestamp"`
	Type           int     `json:"type"`
	Subtype        int     `json:"subtype"`
	SignalStrength *int    `json:"signal_strength"`
	Src            string  `json:"src"`
	Dst            string  `json:"dst"`
	Channel        *int    `json:"channel"`
}

// Time returns the capture time.
func (e PacketEvent) Time() time.Time {
	sec := int64(e.Timestamp)
	nsec := int64((e.Timestamp - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// DecodeEvent decodes one push channel message.
func DecodeEvent(data []byte) (PacketEvent, error) {
	var ev PacketEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("unmarshaling error: %w", err)
	}
	return ev, nil
}
