// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0
// Copyright 2026 ZettaScale Technology

package node_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/atolab/zenoh-flow-python/pkg/node"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPipePreservesOrder(t *testing.T) {
	out, in := node.Pipe("data", 8)

	payloads := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for _, p := range payloads {
		out.Send(node.Message{Payload: p})
	}

	for _, want := range payloads {
		msg, ok := in.Recv()
		require.True(t, ok)
		assert.Equal(t, want, msg.Payload)
	}
}

func TestPipeNames(t *testing.T) {
	out, in := node.Pipe("telemetry", 1)
	assert.Equal(t, "telemetry", out.Name())
	assert.Equal(t, "telemetry", in.Name())
}

func TestSendBlocksWhenFull(t *testing.T) {
	out, in := node.Pipe("data", 1)
	out.Send(node.Message{Payload: []byte("a")})

	done := make(chan struct{})
	go func() {
		out.Send(node.Message{Payload: []byte("b")})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("send returned on a full channel")
	case <-time.After(50 * time.Millisecond):
	}

	msg, ok := in.Recv()
	require.True(t, ok)
	assert.Equal(t, []byte("a"), msg.Payload)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send did not resume after capacity freed")
	}
}

func TestCloseDrainsThenReportsClosed(t *testing.T) {
	out, in := node.Pipe("data", 4)
	out.Send(node.Message{Payload: []byte("last")})
	out.Close()

	msg, ok := in.Recv()
	require.True(t, ok)
	assert.Equal(t, []byte("last"), msg.Payload)

	_, ok = in.Recv()
	assert.False(t, ok)
}

func TestRecvBlocksUntilSend(t *testing.T) {
	out, in := node.Pipe("data", 0)

	got := make(chan node.Message, 1)
	go func() {
		msg, _ := in.Recv()
		got <- msg
	}()

	out.Send(node.Message{Payload: []byte("ping")})

	select {
	case msg := <-got:
		assert.Equal(t, []byte("ping"), msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("recv did not observe the send")
	}
}
