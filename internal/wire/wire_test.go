package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConcatenatedFrame(t *testing.T) {
	frame := []byte(`{"type":"ping","value":"123"}{"type":"pause","value":true}`)
	msgs := Decode(frame)
	require.Len(t, msgs, 2)
	assert.Equal(t, InPing, msgs[0].Type)
	assert.Equal(t, "123", msgs[0].StringValue)
	assert.Equal(t, InPause, msgs[1].Type)
	assert.True(t, msgs[1].BoolValue)
}

func TestDecodeUnknownTypeIgnored(t *testing.T) {
	frame := []byte(`{"type":"frobnicate","value":1}`)
	msgs := Decode(frame)
	assert.Empty(t, msgs)
}

func TestDecodeMalformedFrameIgnored(t *testing.T) {
	frame := []byte(`not json at all`)
	msgs := Decode(frame)
	assert.Empty(t, msgs)
}

func TestDecodeSpreadOutOfRangeIgnored(t *testing.T) {
	frame := []byte(`{"type":"spread","value":5.0}`)
	msgs := Decode(frame)
	assert.Empty(t, msgs)
}

func TestDecodeSpreadInRangeAccepted(t *testing.T) {
	frame := []byte(`{"type":"spread","value":0.10}`)
	msgs := Decode(frame)
	require.Len(t, msgs, 1)
	assert.InDelta(t, 0.10, msgs[0].NumberValue, 1e-9)
}

func TestDecodeSpeedOutOfRangeIgnored(t *testing.T) {
	frame := []byte(`{"type":"speed","value":9.0}`)
	msgs := Decode(frame)
	assert.Empty(t, msgs)
}

func TestDecodeGetCandlesUnknownTimeframeIgnored(t *testing.T) {
	frame := []byte(`{"type":"getCandles","timeframe":7}`)
	msgs := Decode(frame)
	assert.Empty(t, msgs)
}

func TestDecodeGetCandlesValidTimeframe(t *testing.T) {
	frame := []byte(`{"type":"getCandles","timeframe":60}`)
	msgs := Decode(frame)
	require.Len(t, msgs, 1)
	assert.Equal(t, 60, msgs[0].Timeframe)
}

func TestDecodeStartConfig(t *testing.T) {
	frame := []byte(`{"type":"start","config":{"symbol":"TEST","price":100,"spread":0.1,"sentiment":"BULLISH","intensity":"NORMAL","speed":1}}`)
	msgs := Decode(frame)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].Start)
	assert.Equal(t, "TEST", msgs[0].Start.Symbol)
	assert.Equal(t, "BULLISH", msgs[0].Start.Sentiment)
}

func TestEncodeTickIncludesTypeAndStats(t *testing.T) {
	data := TickData{
		Stats: StatsWire{Symbol: "TEST", CurrentPrice: 100.5},
	}
	b := EncodeTick(data)
	assert.Contains(t, string(b), `"type":"tick"`)
	assert.Contains(t, string(b), `"symbol":"TEST"`)
}

func TestEncodePongEchoesTimestamp(t *testing.T) {
	b := EncodePong("abc123")
	assert.Contains(t, string(b), `"timestamp":"abc123"`)
}
