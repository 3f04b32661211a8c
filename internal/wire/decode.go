package wire

import (
	"bytes"
	"io"
)

// rawMessage is the loosely-typed shape every inbound object is first
// unmarshalled into before field-level validation.
type rawMessage struct {
	Type      string  `json:"type"`
	Value     any     `json:"value"`
	Timeframe int     `json:"timeframe"`
	Config    rawCfg  `json:"config"`
}

type rawCfg struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Spread    float64 `json:"spread"`
	Sentiment string  `json:"sentiment"`
	Intensity string  `json:"intensity"`
	Speed     float64 `json:"speed"`
}

// Decode parses a single transport frame into zero or more Inbound
// messages. Per spec §6/§9 a frame may concatenate several top-level JSON
// objects ("{...}{...}"); a depth-tracking stream decoder reads them one
// at a time. A malformed or unparseable object truncates the remainder of
// the frame (there is no way to resynchronise a byte stream after a parse
// error) but messages already decoded are still returned and acted on —
// spec §7 requires malformed input to be ignored, not to cancel the
// session, and this preserves every message that parsed before the bad
// one.
func Decode(frame []byte) []Inbound {
	dec := json.NewDecoder(bytes.NewReader(frame))

	var out []Inbound
	for {
		var raw rawMessage
		if err := dec.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			break
		}
		msg, ok := toInbound(raw)
		if ok {
			out = append(out, msg)
		}
	}
	return out
}

func validTimeframe(tf int) bool {
	switch tf {
	case 1, 5, 30, 60, 300:
		return true
	}
	return false
}

func toInbound(raw rawMessage) (Inbound, bool) {
	switch raw.Type {
	case InStart:
		return Inbound{Type: InStart, Start: &StartConfig{
			Symbol:    raw.Config.Symbol,
			Price:     raw.Config.Price,
			Spread:    raw.Config.Spread,
			Sentiment: raw.Config.Sentiment,
			Intensity: raw.Config.Intensity,
			Speed:     raw.Config.Speed,
		}}, true

	case InSentiment, InIntensity:
		s, ok := raw.Value.(string)
		if !ok {
			return Inbound{}, false
		}
		return Inbound{Type: raw.Type, StringValue: s}, true

	case InSpread:
		n, ok := raw.Value.(float64)
		if !ok || n < 0.05 || n > 0.25 {
			return Inbound{}, false
		}
		return Inbound{Type: InSpread, NumberValue: n}, true

	case InSpeed:
		n, ok := raw.Value.(float64)
		if !ok || n < 0.25 || n > 2.0 {
			return Inbound{}, false
		}
		return Inbound{Type: InSpeed, NumberValue: n}, true

	case InPause, InNewsShock:
		b, ok := raw.Value.(bool)
		if !ok {
			return Inbound{}, false
		}
		return Inbound{Type: raw.Type, BoolValue: b}, true

	case InReset:
		return Inbound{Type: InReset}, true

	case InGetCandles:
		if !validTimeframe(raw.Timeframe) {
			return Inbound{}, false
		}
		return Inbound{Type: InGetCandles, Timeframe: raw.Timeframe}, true

	case InPing:
		s, ok := raw.Value.(string)
		if !ok {
			return Inbound{}, false
		}
		return Inbound{Type: InPing, StringValue: s}, true

	default:
		return Inbound{}, false
	}
}
