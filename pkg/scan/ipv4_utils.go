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
	"encoding/binary"
	"fmt"
	"iter"
	"net/netip"
	"strings"
)

// Range is an inclusive, ascending span of IPv4 addresses.
type Range struct {
	start uint32
	end   uint32
}

// NewRange parses start and end as IPv4 literals and returns the range
// between them. The start must not be numerically greater than the end.
func NewRange(start, end string) (*Range, error) {
	s, err := parseIPv4(start)
	if err != nil {
		return nil, &InvalidRangeError{Start: start, End: end, Reason: fmt.Sprintf("start: %v", err)}
	}

	e, err := parseIPv4(end)
	if err != nil {
		return nil, &InvalidRangeError{Start: start, End: end, Reason: fmt.Sprintf("end: %v", err)}
	}

	if s > e {
		return nil, &InvalidRangeError{Start: start, End: end, Reason: "end address must not be smaller than start address"}
	}

	return &Range{start: s, end: e}, nil
}

func parseIPv4(s string) (uint32, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !addr.Is4() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	return AddrToUint32(addr), nil
}

// Len is the number of addresses in the range, end-start+1.
func (r *Range) Len() uint64 {
	return uint64(r.end) - uint64(r.start) + 1
}

// Start returns the first address.
func (r *Range) Start() netip.Addr {
	return Uint32ToAddr(r.start)
}

// End returns the last address.
func (r *Range) End() netip.Addr {
	return Uint32ToAddr(r.end)
}

// Contains reports whether addr lies within the range.
func (r *Range) Contains(addr netip.Addr) bool {
	if !addr.Is4() {
		return false
	}

	v := AddrToUint32(addr)

	return v >= r.start && v <= r.end
}

func (r *Range) String() string {
	return r.Start().String() + "-" + r.End().String()
}

// Iter returns a fresh iterator positioned before the first address.
func (r *Range) Iter() *RangeIterator {
	return &RangeIterator{next: uint64(r.start), end: uint64(r.end)}
}

// All yields every address in ascending order.
func (r *Range) All() iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		it := r.Iter()
		for addr, ok := it.Next(); ok; addr, ok = it.Next() {
			if !yield(addr) {
				return
			}
		}
	}
}

// RangeIterator walks a Range lazily. It is not safe for concurrent use.
type RangeIterator struct {
	// uint64 so that 255.255.255.255 terminates without wrapping
	next uint64
	end  uint64
}

// Next returns the next address, or false once the range is exhausted.
func (it *RangeIterator) Next() (netip.Addr, bool) {
	if it.next > it.end {
		return netip.Addr{}, false
	}

	addr := Uint32ToAddr(uint32(it.next))
	it.next++

	return addr, true
}

// AddrToUint32 converts an IPv4 address to its numeric value.
func AddrToUint32(addr netip.Addr) uint32 {
	b := addr.As4()

	return binary.BigEndian.Uint32(b[:])
}

// Uint32ToAddr converts a numeric value to an IPv4 address.
func Uint32ToAddr(v uint32) netip.Addr {
	var b [4]byte

	binary.BigEndian.PutUint32(b[:], v)

	return netip.AddrFrom4(b)
}
