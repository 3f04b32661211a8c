package wire

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeStarted encodes a "started" acknowledgement.
func EncodeStarted() []byte {
	b, _ := json.Marshal(map[string]any{"type": "started"})
	return b
}

// EncodeSimulationReset encodes the "simulationReset" acknowledgement.
func EncodeSimulationReset() []byte {
	b, _ := json.Marshal(map[string]any{"type": "simulationReset"})
	return b
}

// EncodeCandleReset encodes the "candleReset" acknowledgement.
func EncodeCandleReset() []byte {
	b, _ := json.Marshal(map[string]any{"type": "candleReset"})
	return b
}

// EncodePong encodes a "pong" reply echoing the client's clock value.
func EncodePong(echoed string) []byte {
	b, _ := json.Marshal(map[string]any{"type": "pong", "timestamp": echoed})
	return b
}

// EncodeTick encodes a "tick" bundle.
func EncodeTick(data TickData) []byte {
	b, _ := json.Marshal(map[string]any{"type": "tick", "data": data})
	return b
}

// EncodeCandleHistory encodes a "candleHistory" reply.
func EncodeCandleHistory(data CandleHistoryData) []byte {
	b, _ := json.Marshal(map[string]any{"type": "candleHistory", "data": data})
	return b
}
