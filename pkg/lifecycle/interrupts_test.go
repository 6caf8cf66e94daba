package lifecycle

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterrupts_CancelsActiveScope(t *testing.T) {
	t.Parallel()

	sigs := make(chan os.Signal, 1)
	idle := make(chan os.Signal, 1)

	i := newInterrupts(sigs, WithIdleHandler(func(sig os.Signal) { idle <- sig }))
	defer i.Stop()

	ctx, release := i.Scope(context.Background())
	defer release()

	sigs <- syscall.SIGINT

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scope was not cancelled by the signal")
	}

	assert.Empty(t, idle)
}

func TestInterrupts_IdleSignal(t *testing.T) {
	t.Parallel()

	sigs := make(chan os.Signal, 1)
	idle := make(chan os.Signal, 1)

	i := newInterrupts(sigs, WithIdleHandler(func(sig os.Signal) { idle <- sig }))
	defer i.Stop()

	_, release := i.Scope(context.Background())
	release()

	sigs <- syscall.SIGTERM

	select {
	case sig := <-idle:
		assert.Equal(t, syscall.SIGTERM, sig)
	case <-time.After(2 * time.Second):
		t.Fatal("idle handler was not called")
	}
}

func TestInterrupts_NewScopeAfterSignal(t *testing.T) {
	t.Parallel()

	sigs := make(chan os.Signal, 1)

	i := newInterrupts(sigs)
	defer i.Stop()

	first, releaseFirst := i.Scope(context.Background())
	sigs <- syscall.SIGINT

	<-first.Done()
	releaseFirst()

	second, releaseSecond := i.Scope(context.Background())
	defer releaseSecond()

	require.NoError(t, second.Err(), "a new scan must start with a live context")
}

func TestInterrupts_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	i := NewInterrupts()
	i.Stop()
	i.Stop()
}
