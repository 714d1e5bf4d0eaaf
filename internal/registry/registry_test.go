package registry_test

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/likexian/whois"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/namescout/internal/apperr"
	"github.com/tbckr/namescout/internal/registry"
	"github.com/tbckr/namescout/internal/testutil"
)

const registeredAnswer = `   Domain Name: EXAMPLE-TAKEN.COM
   Registry Domain ID: 123456789_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.registrar.example
   Registrar URL: http://www.registrar.example
   Updated Date: 2024-03-01T10:00:00Z
   Creation Date: 2001-05-17T04:00:00Z
   Registry Expiry Date: 2030-05-17T04:00:00Z
   Registrar: Example Registrar, LLC
   Registrar IANA ID: 9999
   Registrar Abuse Contact Email: abuse@registrar.example
   Registrar Abuse Contact Phone: +1.5555555555
   Domain Status: clientTransferProhibited https://icann.org/epp#clientTransferProhibited
   Name Server: NS1.REGISTRAR.EXAMPLE
   Name Server: NS2.REGISTRAR.EXAMPLE
   DNSSEC: unsigned
   URL of the ICANN Whois Inaccuracy Complaint Form: https://www.icann.org/wicf/
>>> Last update of whois database: 2024-10-14T10:00:00Z <<<
`

const noMatchAnswer = `No match for domain "SURELY-UNREGISTERED-NAME.COM".
>>> Last update of whois database: 2024-10-14T10:00:00Z <<<

NOTICE: The expiration date displayed in this record is the date the
registrar's sponsorship of the domain name registration in the registry is
currently set to expire.
`

const ianaCom = `% IANA WHOIS server
% for more information on IANA, visit http://www.iana.org

refer:        whois.verisign-grs.com

domain:       COM

organisation: VeriSign Global Registry Services
whois:        whois.verisign-grs.com

status:       ACTIVE
`

// withIANA answers bare TLD queries like whois.iana.org does and hands
// domain queries to fn.
func withIANA(fn func(domain string, servers ...string) (string, error)) *testutil.MockWhois {
	return &testutil.MockWhois{WhoisFn: func(domain string, servers ...string) (string, error) {
		if !strings.Contains(domain, ".") {
			return ianaCom, nil
		}
		return fn(domain, servers...)
	}}
}

func newRegistry(client registry.WhoisClient) *registry.Registry {
	return registry.New(client, time.Second, testutil.NopLogger())
}

func TestLookup_Registered(t *testing.T) {
	var asked string
	var server []string
	client := withIANA(func(domain string, servers ...string) (string, error) {
		asked, server = domain, servers
		return registeredAnswer, nil
	})
	rec, err := newRegistry(client).Lookup(context.Background(), "example-taken.com")
	require.NoError(t, err)
	assert.Equal(t, "example-taken.com", asked)
	assert.Equal(t, []string{"whois.verisign-grs.com"}, server)
	assert.True(t, rec.Registered)
	assert.Equal(t, "Example Registrar, LLC", rec.Registrar)
	assert.Equal(t, "2001-05-17T04:00:00Z", rec.Created)
}

func TestLookup_NoMatchIsNotRegistered(t *testing.T) {
	client := withIANA(func(string, ...string) (string, error) {
		return noMatchAnswer, nil
	})
	rec, err := newRegistry(client).Lookup(context.Background(), "surely-unregistered-name.com")
	assert.False(t, rec.Registered)
	if err != nil {
		var regErr *registry.RegistryError
		assert.ErrorAs(t, err, &regErr)
	}
}

func TestLookup_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	client := withIANA(func(string, ...string) (string, error) {
		return "", boom
	})
	rec, err := newRegistry(client).Lookup(context.Background(), "example.com")
	assert.False(t, rec.Registered)

	var regErr *registry.RegistryError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "example.com", regErr.Domain)
	assert.ErrorIs(t, err, apperr.ErrRequestFailed)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "whois example.com")
}

func TestLookup_GarbageAnswer(t *testing.T) {
	client := withIANA(func(string, ...string) (string, error) {
		return "", nil
	})
	rec, err := newRegistry(client).Lookup(context.Background(), "example.com")
	assert.False(t, rec.Registered)
	var regErr *registry.RegistryError
	assert.ErrorAs(t, err, &regErr)
}

func TestLookup_CancelledBeforeQuery(t *testing.T) {
	called := false
	client := &testutil.MockWhois{WhoisFn: func(string, ...string) (string, error) {
		called = true
		return registeredAnswer, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRegistry(client).Lookup(ctx, "example.com")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestNewClient(t *testing.T) {
	t.Setenv("ALL_PROXY", "")
	c, err := registry.NewClient(0, "")
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = registry.NewClient(registry.DefaultTimeout, "socks5://127.0.0.1:1080")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestLookup_DiscoversServerOncePerTLD(t *testing.T) {
	var mu sync.Mutex
	iana := map[string]int{}
	perServer := map[string]int{}
	client := &testutil.MockWhois{WhoisFn: func(domain string, servers ...string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if !strings.Contains(domain, ".") {
			iana[domain]++
			time.Sleep(20 * time.Millisecond)
			return fmt.Sprintf("refer:        whois.nic.%s\n", domain), nil
		}
		if !assert.Len(t, servers, 1) {
			return "", errors.New("no server given")
		}
		perServer[servers[0]]++
		return registeredAnswer, nil
	}}
	reg := newRegistry(client)

	domains := []string{"a.com", "b.com", "c.com", "d.com", "e.net", "f.net", "g.COM"}
	var wg sync.WaitGroup
	for _, d := range domains {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Lookup(context.Background(), d)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"com": 1, "net": 1}, iana)
	assert.Equal(t, map[string]int{"whois.nic.com": 5, "whois.nic.net": 2}, perServer)
}

func TestLookup_DiscoveryFailureIsRetried(t *testing.T) {
	boom := errors.New("iana unreachable")
	ianaCalls := 0
	client := &testutil.MockWhois{WhoisFn: func(domain string, _ ...string) (string, error) {
		if !strings.Contains(domain, ".") {
			ianaCalls++
			if ianaCalls == 1 {
				return "", boom
			}
			return ianaCom, nil
		}
		return registeredAnswer, nil
	}}
	reg := newRegistry(client)

	_, err := reg.Lookup(context.Background(), "first.com")
	var regErr *registry.RegistryError
	require.ErrorAs(t, err, &regErr)
	assert.ErrorIs(t, err, apperr.ErrRequestFailed)
	assert.ErrorIs(t, err, boom)

	rec, err := reg.Lookup(context.Background(), "second.com")
	require.NoError(t, err)
	assert.True(t, rec.Registered)
	assert.Equal(t, 2, ianaCalls)
}

func TestLookup_TLDWithoutWhoisServer(t *testing.T) {
	calls := 0
	client := &testutil.MockWhois{WhoisFn: func(domain string, _ ...string) (string, error) {
		calls++
		return "domain:       EXAMPLE\n\nwhois:\n\nstatus:       ACTIVE\n", nil
	}}
	reg := newRegistry(client)

	for range 2 {
		_, err := reg.Lookup(context.Background(), "name.example")
		var regErr *registry.RegistryError
		require.ErrorAs(t, err, &regErr)
		assert.Contains(t, err.Error(), "no whois server listed for .example")
	}
	assert.Equal(t, 1, calls, "an empty listing is remembered")
}

func TestLookup_SlowServerHitsDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	client := withIANA(func(string, ...string) (string, error) {
		<-release
		return registeredAnswer, nil
	})
	reg := registry.New(client, 50*time.Millisecond, testutil.NopLogger())

	start := time.Now()
	rec, err := reg.Lookup(context.Background(), "slow.com")
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, rec.Registered)
	var regErr *registry.RegistryError
	require.ErrorAs(t, err, &regErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, apperr.ErrRequestFailed)
}

// routeDialer sends each WHOIS host to a local listener.
type routeDialer map[string]string

func (d routeDialer) Dial(network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	target, ok := d[host]
	if !ok {
		return nil, fmt.Errorf("unexpected dial to %s", addr)
	}
	return net.Dial(network, target)
}

// startWhoisServer answers every query with reply after delay.
func startWhoisServer(t *testing.T, delay time.Duration, reply string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				_, _ = bufio.NewReader(conn).ReadString('\n')
				time.Sleep(delay)
				_, _ = conn.Write([]byte(reply))
			}()
		}
	}()
	return ln.Addr().String()
}

func TestLookup_DeadlineCoversReferralHops(t *testing.T) {
	dialer := routeDialer{
		"whois.iana.org":       startWhoisServer(t, 0, "refer:        whois.nic.test\n"),
		"whois.nic.test":       startWhoisServer(t, 300*time.Millisecond, "Domain Name: EXAMPLE.TEST\nRegistrar WHOIS Server: whois.registrar.test\n"),
		"whois.registrar.test": startWhoisServer(t, 300*time.Millisecond, "Domain Name: EXAMPLE.TEST\nRegistrar: Example Registrar\n"),
	}
	timeout := 400 * time.Millisecond
	client := whois.NewClient().SetDialer(dialer).SetTimeout(timeout)
	reg := registry.New(client, timeout, testutil.NopLogger())

	start := time.Now()
	_, err := reg.Lookup(context.Background(), "example.test")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, 550*time.Millisecond, "both hops together must fit in one timeout")
}
