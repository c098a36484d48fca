package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "serving-rt", ServingRT.String())
	assert.Equal(t, "serving-nrt", ServingNRT.String())
	assert.Equal(t, "ServerState(9)", ServerState(9).String())
}

func TestParseServerState(t *testing.T) {
	tests := []struct {
		in   string
		want ServerState
	}{
		{"idle", Idle},
		{"", Idle},
		{"rt", ServingRT},
		{"serving-rt", ServingRT},
		{"nrt", ServingNRT},
		{"serving-nrt", ServingNRT},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseServerState(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseServerState("busy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestState_CheckInvariants(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name  string
		state State
		ok    bool
	}{
		{"idle and empty", State{ServiceClock: inf, Server: Idle}, true},
		{"serving with empty queues", State{ServiceClock: 9, Server: ServingNRT}, true},
		{"preempted job waiting behind rt", State{ServiceClock: 5, Server: ServingRT, NRTQueueLen: 1, PreemptedRemaining: 1}, true},
		{"idle with waiting rt", State{ServiceClock: inf, Server: Idle, RTQueueLen: 1}, false},
		{"idle with pending completion", State{ServiceClock: 4, Server: Idle}, false},
		{"busy without completion", State{ServiceClock: inf, Server: ServingRT}, false},
		{"negative queue", State{ServiceClock: 4, Server: ServingRT, NRTQueueLen: -1}, false},
		{"negative preempted", State{ServiceClock: 4, Server: ServingRT, PreemptedRemaining: -1}, false},
		{"preempted while serving nrt", State{ServiceClock: 4, Server: ServingNRT, NRTQueueLen: 1, PreemptedRemaining: 2}, false},
		{"preempted with empty nrt queue", State{ServiceClock: 4, Server: ServingRT, PreemptedRemaining: 2}, false},
		{"unknown server", State{ServiceClock: 4, Server: ServerState(5)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.CheckInvariants()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
