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
	"errors"
	"fmt"
)

var (
	ErrInvalidRange   = errors.New("invalid address range")
	ErrInvalidAddress = errors.New("invalid IPv4 address")
	ErrInvalidPort    = errors.New("invalid port")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrNoPTRRecord    = errors.New("no PTR record")
	errLookupFailed   = errors.New("reverse lookup failed")
)

// InvalidRangeError reports a start/end pair that cannot be scanned.
type InvalidRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s %q-%q: %s", ErrInvalidRange, e.Start, e.End, e.Reason)
}

// Is lets errors.Is match any InvalidRangeError against ErrInvalidRange.
func (*InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
