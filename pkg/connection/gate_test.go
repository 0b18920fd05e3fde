package connection

import (
	"errors"
	"sync"
	"testing"

	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

func TestGateInitialState(t *testing.T) {
	g := NewGate("Je Joue")

	if !g.ClientConnected() || !g.DeviceConnected() {
		t.Fatal("expected both flags set on a new gate")
	}
	if g.State() != StateConnected {
		t.Errorf("expected CONNECTED, got %s", g.State())
	}
	if err := g.Admit(); err != nil {
		t.Errorf("expected admission, got %v", err)
	}
}

func TestGateAdmit(t *testing.T) {
	t.Run("DeviceDisconnected", func(t *testing.T) {
		g := NewGate("Je Joue")
		g.SetDeviceConnected(false)

		err := g.Admit()
		var dnc *wire.DeviceNotConnectedError
		if !errors.As(err, &dnc) {
			t.Fatalf("expected DeviceNotConnectedError, got %v", err)
		}
		if dnc.Name != "Je Joue" {
			t.Errorf("expected device name in error, got %q", dnc.Name)
		}
		if !errors.Is(err, wire.ErrDeviceNotConnected) {
			t.Error("expected error to unwrap to ErrDeviceNotConnected")
		}
	})

	t.Run("ClientDisconnectedTakesPrecedence", func(t *testing.T) {
		g := NewGate("Je Joue")
		g.SetDeviceConnected(false)
		g.SetClientConnected(false)

		if err := g.Admit(); !errors.Is(err, wire.ErrConnectorNotConnected) {
			t.Errorf("expected ErrConnectorNotConnected, got %v", err)
		}
		if g.State() != StateClientDisconnected {
			t.Errorf("expected CLIENT_DISCONNECTED, got %s", g.State())
		}
	})

	t.Run("Reconnected", func(t *testing.T) {
		g := NewGate("Je Joue")
		g.SetDeviceConnected(false)
		g.SetDeviceConnected(true)

		if err := g.Admit(); err != nil {
			t.Errorf("expected admission after reconnect, got %v", err)
		}
	})
}

func TestGateStateChange(t *testing.T) {
	g := NewGate("Je Joue")

	var changes [][2]State
	g.OnStateChange(func(oldState, newState State) {
		changes = append(changes, [2]State{oldState, newState})
	})

	g.SetDeviceConnected(true) // no change
	g.SetDeviceConnected(false)
	g.SetClientConnected(false)
	g.SetDeviceConnected(true) // still client disconnected

	want := [][2]State{
		{StateConnected, StateDeviceDisconnected},
		{StateDeviceDisconnected, StateClientDisconnected},
	}
	if len(changes) != len(want) {
		t.Fatalf("expected %d changes, got %d: %v", len(want), len(changes), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d: expected %v, got %v", i, want[i], changes[i])
		}
	}
}

func TestGateConcurrentAccess(t *testing.T) {
	g := NewGate("Je Joue")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func(connected bool) {
			defer wg.Done()
			g.SetDeviceConnected(connected)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			err := g.Admit()
			if err != nil && !errors.Is(err, wire.ErrDeviceNotConnected) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateConnected, "CONNECTED"},
		{StateDeviceDisconnected, "DEVICE_DISCONNECTED"},
		{StateClientDisconnected, "CLIENT_DISCONNECTED"},
		{State(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
