package scan

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startPTRServer serves PTR answers for records on a loopback UDP socket
// and returns its address.
func startPTRServer(t *testing.T, records map[string]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})

	srv := &dns.Server{
		PacketConn: pc,
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			q := r.Question[0]

			name, ok := records[q.Name]
			if !ok {
				m.SetRcode(r, dns.RcodeNameError)
				_ = w.WriteMsg(m)

				return
			}

			m.SetReply(r)
			m.Answer = append(m.Answer, &dns.PTR{
				Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 60},
				Ptr: name,
			})
			_ = w.WriteMsg(m)
		}),
		NotifyStartedFunc: func() { close(started) },
	}

	go func() {
		_ = srv.ActivateAndServe()
	}()

	<-started

	t.Cleanup(func() {
		_ = srv.Shutdown()
	})

	return pc.LocalAddr().String()
}

func TestDNSResolver_Resolve(t *testing.T) {
	server := startPTRServer(t, map[string]string{
		"1.0.0.10.in-addr.arpa.": "web01.example.com.",
	})

	resolver := NewDNSResolver(server, time.Second)

	t.Run("known address", func(t *testing.T) {
		name, err := resolver.Resolve(context.Background(), netip.MustParseAddr("10.0.0.1"))
		require.NoError(t, err)
		assert.Equal(t, "web01.example.com", name)
	})

	t.Run("no record", func(t *testing.T) {
		name, err := resolver.Resolve(context.Background(), netip.MustParseAddr("10.0.0.2"))
		require.ErrorIs(t, err, ErrNoPTRRecord)
		assert.Empty(t, name)
	})
}

func TestDNSResolver_Timeout(t *testing.T) {
	// a socket nobody reads from never answers
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	defer pc.Close()

	resolver := NewDNSResolver(pc.LocalAddr().String(), 100*time.Millisecond)

	start := time.Now()
	name, err := resolver.Resolve(context.Background(), netip.MustParseAddr("10.0.0.1"))

	require.ErrorIs(t, err, errLookupFailed)
	assert.Empty(t, name)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewDNSResolver_DefaultPort(t *testing.T) {
	t.Parallel()

	r := NewDNSResolver("192.0.2.53", 0)
	assert.Equal(t, "192.0.2.53:53", r.server)
	assert.Equal(t, DefaultResolveTimeout, r.timeout)

	r = NewDNSResolver("192.0.2.53:5353", time.Second)
	assert.Equal(t, "192.0.2.53:5353", r.server)
}

func TestSystemResolver_CancelledContext(t *testing.T) {
	t.Parallel()

	r := NewSystemResolver(0)
	assert.Equal(t, DefaultResolveTimeout, r.timeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	name, err := r.Resolve(ctx, netip.MustParseAddr("192.0.2.1"))
	require.Error(t, err)
	assert.Empty(t, name)
}

func TestFirstName(t *testing.T) {
	t.Parallel()

	addr := netip.MustParseAddr("10.0.0.1")

	name, err := firstName(addr, []string{".", "host.lan."})
	require.NoError(t, err)
	assert.Equal(t, "host.lan", name)

	_, err = firstName(addr, nil)
	require.ErrorIs(t, err, ErrNoPTRRecord)
}
