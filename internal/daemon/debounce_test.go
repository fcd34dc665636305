package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	rebuildReq, trigger := newDebouncer(20 * time.Millisecond)

	for i := 0; i < 10; i++ {
		trigger()
	}

	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for rebuild request")
	}

	// The burst must produce exactly one request.
	select {
	case <-rebuildReq:
		t.Fatal("expected a single coalesced request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerFiresAgainAfterQuiet(t *testing.T) {
	rebuildReq, trigger := newDebouncer(10 * time.Millisecond)

	trigger()
	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first request")
	}

	trigger()
	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for second request")
	}
}

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/src/.core.py.swp"))
	require.True(t, shouldIgnoreEvent("/src/core.py~"))
	require.True(t, shouldIgnoreEvent("/src/#core.py#"))
	require.True(t, shouldIgnoreEvent("/src/.hidden"))

	assert.False(t, shouldIgnoreEvent("/src/core.py"))
	assert.False(t, shouldIgnoreEvent("/po/de.po"))
}
