package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/haptic-protocol/haptic-go/pkg/log"
)

func TestFrameWriterReader(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"single byte", []byte{0x42}},
		{"small message", []byte("vibrate")},
		{"binary data", []byte{0x00, 0xFF, 0x7F, 0x80}},
		{"max size message", bytes.Repeat([]byte("y"), DefaultMaxMessageSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			if err := NewFrameWriter(buf).WriteFrame(tt.payload); err != nil {
				t.Fatalf("WriteFrame failed: %v", err)
			}
			if buf.Len() != FrameSize(len(tt.payload)) {
				t.Errorf("frame size = %d, want %d", buf.Len(), FrameSize(len(tt.payload)))
			}

			got, err := NewFrameReader(buf).ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame failed: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("payload mismatch: got %d bytes, want %d bytes", len(got), len(tt.payload))
			}
		})
	}
}

func TestFrameWriterRejects(t *testing.T) {
	writer := NewFrameWriterWithMaxSize(new(bytes.Buffer), 100)

	if err := writer.WriteFrame(nil); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("expected ErrMessageEmpty, got %v", err)
	}
	if err := writer.WriteFrame(bytes.Repeat([]byte("x"), 101)); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("expected ErrMessageTooLarge, got %v", err)
	}
}

func rawFrame(length uint32, payload []byte) *bytes.Buffer {
	buf := new(bytes.Buffer)
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], length)
	buf.Write(prefix[:])
	buf.Write(payload)
	return buf
}

func TestFrameReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input *bytes.Buffer
		max   uint32
		want  error
	}{
		{"empty stream", new(bytes.Buffer), DefaultMaxMessageSize, io.EOF},
		{"zero length", rawFrame(0, nil), DefaultMaxMessageSize, ErrMessageEmpty},
		{"too large", rawFrame(1000, bytes.Repeat([]byte("x"), 1000)), 100, ErrMessageTooLarge},
		{"truncated prefix", bytes.NewBuffer([]byte{0x00, 0x00}), DefaultMaxMessageSize, ErrFrameTruncated},
		{"truncated payload", rawFrame(10, []byte("abc")), DefaultMaxMessageSize, ErrFrameTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrameReaderWithMaxSize(tt.input, tt.max).ReadFrame()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMultipleFrames(t *testing.T) {
	buf := new(bytes.Buffer)
	framer := NewFramer(buf)

	messages := [][]byte{[]byte("first"), []byte("second"), []byte("third")}
	for _, msg := range messages {
		if err := framer.WriteFrame(msg); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}
	for i, want := range messages {
		got, err := framer.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame %d failed: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("frame %d: got %q, want %q", i, got, want)
		}
	}
}

func TestFramerLogsFrames(t *testing.T) {
	rec := log.NewRecorder(0)
	buf := new(bytes.Buffer)
	framer := NewFramer(buf)
	framer.SetLogger(rec, "conn-42", log.RoleClient)

	if err := framer.WriteFrame([]byte{0x01, 0x02}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if _, err := framer.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	events := rec.Events(log.Filter{})
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for i, want := range []log.Direction{log.DirectionOut, log.DirectionIn} {
		e := events[i]
		if e.Direction != want {
			t.Errorf("event %d: direction %s, want %s", i, e.Direction, want)
		}
		if e.ConnectionID != "conn-42" || e.Layer != log.LayerTransport || e.LocalRole != log.RoleClient {
			t.Errorf("event %d: unexpected metadata %+v", i, e)
		}
		if e.Frame == nil || e.Frame.Size != 6 || !bytes.Equal(e.Frame.Data, []byte{0x01, 0x02}) {
			t.Errorf("event %d: unexpected frame %+v", i, e.Frame)
		}
		if e.Timestamp.IsZero() {
			t.Errorf("event %d: missing timestamp", i)
		}
	}
}

func TestFramerLogsTruncatedData(t *testing.T) {
	rec := log.NewRecorder(0)
	writer := NewFrameWriter(new(bytes.Buffer))
	writer.SetLogger(rec, "conn-1", log.RoleServer)

	if err := writer.WriteFrame(bytes.Repeat([]byte{0xAB}, log.MaxFrameData+10)); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	events := rec.Events(log.Filter{})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].Frame.Truncated || len(events[0].Frame.Data) != log.MaxFrameData {
		t.Errorf("expected truncated frame data, got %d bytes", len(events[0].Frame.Data))
	}
}
