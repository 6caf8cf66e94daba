/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DefaultResolveTimeout bounds a single reverse lookup.
const DefaultResolveTimeout = 2 * time.Second

// SystemResolver performs reverse lookups through the host's resolver.
type SystemResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

func NewSystemResolver(timeout time.Duration) *SystemResolver {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	return &SystemResolver{
		resolver: &net.Resolver{},
		timeout:  timeout,
	}
}

func (r *SystemResolver) Resolve(ctx context.Context, addr netip.Addr) (string, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names, err := r.resolver.LookupAddr(lookupCtx, addr.String())
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return "", fmt.Errorf("%w for %s", ErrNoPTRRecord, addr)
		}

		return "", fmt.Errorf("%w: %w", errLookupFailed, err)
	}

	return firstName(addr, names)
}

// DNSResolver sends PTR queries straight to one nameserver.
type DNSResolver struct {
	server  string
	client  *dns.Client
	timeout time.Duration
}

// NewDNSResolver queries server, a "host:port" or bare host (port 53 is assumed).
func NewDNSResolver(server string, timeout time.Duration) *DNSResolver {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}

	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &DNSResolver{
		server:  server,
		client:  &dns.Client{Net: "udp", Timeout: timeout},
		timeout: timeout,
	}
}

func (r *DNSResolver) Resolve(ctx context.Context, addr netip.Addr) (string, error) {
	reverseName, err := dns.ReverseAddr(addr.String())
	if err != nil {
		return "", fmt.Errorf("%w: %w", errLookupFailed, err)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(reverseName, dns.TypePTR)

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, _, err := r.client.ExchangeContext(lookupCtx, msg, r.server)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errLookupFailed, err)
	}

	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return "", fmt.Errorf("%w for %s", ErrNoPTRRecord, addr)
	default:
		return "", fmt.Errorf("%w: %s answered %s", errLookupFailed, r.server, dns.RcodeToString[resp.Rcode])
	}

	var names []string

	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			names = append(names, ptr.Ptr)
		}
	}

	return firstName(addr, names)
}

func firstName(addr netip.Addr, names []string) (string, error) {
	for _, name := range names {
		if name = strings.TrimSuffix(name, "."); name != "" {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w for %s", ErrNoPTRRecord, addr)
}
