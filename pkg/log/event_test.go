package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(9).String(), "UNKNOWN"},
		{LayerTransport.String(), "TRANSPORT"},
		{LayerWire.String(), "WIRE"},
		{LayerSession.String(), "SESSION"},
		{Layer(9).String(), "UNKNOWN"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryState.String(), "STATE"},
		{CategoryError.String(), "ERROR"},
		{Category(9).String(), "UNKNOWN"},
		{RoleServer.String(), "SERVER"},
		{RoleClient.String(), "CLIENT"},
		{Role(9).String(), "UNKNOWN"},
		{StateEntityConnection.String(), "CONNECTION"},
		{StateEntitySession.String(), "SESSION"},
		{StateEntityDevice.String(), "DEVICE"},
		{StateEntity(9).String(), "UNKNOWN"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestEventCBORRoundTrip(t *testing.T) {
	msg, err := wire.NewMessage(7, wire.MsgVibrateCmd, 2, wire.VibrateCmd{Speeds: []wire.VibrateSubcommand{{Index: 0, Speed: 0.5}}})
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	processing := 3 * time.Millisecond
	me := NewMessageEvent(msg)
	me.ProcessingTime = &processing

	event := Event{
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 123456789, time.UTC),
		ConnectionID: "conn-1",
		Direction:    DirectionOut,
		Layer:        LayerWire,
		Category:     CategoryMessage,
		LocalRole:    RoleClient,
		DeviceName:   "Je Joue",
		Message:      me,
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v (nanoseconds must survive)", decoded.Timestamp, event.Timestamp)
	}
	if decoded.LocalRole != RoleClient || decoded.DeviceName != "Je Joue" {
		t.Errorf("identity fields lost: %+v", decoded)
	}
	if decoded.Message == nil {
		t.Fatal("Message is nil")
	}
	if decoded.Message.Type != wire.MsgVibrateCmd || decoded.Message.MessageID != 7 || decoded.Message.DeviceIndex != 2 {
		t.Errorf("unexpected message event %+v", decoded.Message)
	}
	if !bytes.Equal(decoded.Message.Payload, msg.Payload) {
		t.Error("payload bytes differ")
	}
	if decoded.Message.ProcessingTime == nil || *decoded.Message.ProcessingTime != processing {
		t.Errorf("ProcessingTime: got %v", decoded.Message.ProcessingTime)
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	data, err := EncodeEvent(Event{ConnectionID: "x", Frame: &FrameEvent{Size: 1}})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	var raw map[any]any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for k := range raw {
		if _, ok := k.(uint64); !ok {
			t.Errorf("expected integer key, got %T (%v)", k, k)
		}
	}
}

func TestNewMessageEventErrorCode(t *testing.T) {
	msg, err := wire.NewMessage(5, wire.MsgError, 0, wire.NewErrorPayload(wire.ErrConnectorNotConnected))
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	me := NewMessageEvent(msg)
	if me.ErrorCode == nil || *me.ErrorCode != wire.ErrorCodeConnectorNotConnected {
		t.Errorf("ErrorCode: got %v", me.ErrorCode)
	}

	ok, _ := wire.NewMessage(6, wire.MsgOk, 0, nil)
	if NewMessageEvent(ok).ErrorCode != nil {
		t.Error("Ok message must not carry an error code")
	}
}

func TestNewFrameEventTruncates(t *testing.T) {
	data := make([]byte, MaxFrameData+10)
	fe := NewFrameEvent(len(data)+4, data)
	if !fe.Truncated || len(fe.Data) != MaxFrameData {
		t.Errorf("expected truncation to %d bytes, got %d (truncated=%v)", MaxFrameData, len(fe.Data), fe.Truncated)
	}

	small := NewFrameEvent(6, []byte{1, 2})
	if small.Truncated || len(small.Data) != 2 {
		t.Errorf("unexpected small frame %+v", small)
	}
}
