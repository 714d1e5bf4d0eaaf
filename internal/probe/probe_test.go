package probe_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/namescout/internal/probe"
)

// fakeBackend answers from a per-type error table and records the query order.
type fakeBackend struct {
	errs     map[uint16]error
	queried  []uint16
	deadline []time.Duration
}

func (f *fakeBackend) Query(ctx context.Context, _ string, qtype uint16) error {
	f.queried = append(f.queried, qtype)
	if dl, ok := ctx.Deadline(); ok {
		f.deadline = append(f.deadline, time.Until(dl))
	}
	return f.errs[qtype]
}

func TestIsActive_ARecordSkipsMX(t *testing.T) {
	b := &fakeBackend{}
	active, err := probe.New(b, time.Second).IsActive(context.Background(), "example.com")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, []uint16{dns.TypeA}, b.queried)
}

func TestIsActive_FallsBackToMX(t *testing.T) {
	b := &fakeBackend{errs: map[uint16]error{dns.TypeA: probe.ErrNoAnswer}}
	active, err := probe.New(b, time.Second).IsActive(context.Background(), "mail-only.example")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, []uint16{dns.TypeA, dns.TypeMX}, b.queried)
}

func TestIsActive_BothFail(t *testing.T) {
	timeout := errors.New("i/o timeout")
	b := &fakeBackend{errs: map[uint16]error{dns.TypeA: probe.ErrNXDomain, dns.TypeMX: timeout}}

	active, err := probe.New(b, time.Second).IsActive(context.Background(), "nope.example")
	assert.False(t, active)
	require.Error(t, err)

	var resErr *probe.ResolverError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "nope.example", resErr.Domain)
	assert.ErrorIs(t, err, probe.ErrNXDomain)
	assert.ErrorIs(t, err, timeout)
	assert.Contains(t, err.Error(), "resolving A nope.example")
	assert.Contains(t, err.Error(), "resolving MX nope.example")
}

func TestIsActive_TimeoutPerQuery(t *testing.T) {
	b := &fakeBackend{errs: map[uint16]error{dns.TypeA: probe.ErrNoAnswer, dns.TypeMX: probe.ErrNoAnswer}}
	_, _ = probe.New(b, 2*time.Second).IsActive(context.Background(), "example.com")

	require.Len(t, b.deadline, 2)
	for _, d := range b.deadline {
		assert.LessOrEqual(t, d, 2*time.Second)
		assert.Greater(t, d, time.Second)
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	b := &fakeBackend{}
	_, _ = probe.New(b, 0).IsActive(context.Background(), "example.com")
	require.Len(t, b.deadline, 1)
	assert.LessOrEqual(t, b.deadline[0], probe.DefaultTimeout)
	assert.Greater(t, b.deadline[0], probe.DefaultTimeout-time.Second)
}
