// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package platform

import "time"

// Clock abstracts the passage of time so that queue timeouts are testable
// without real sleeps. The zero value is unusable;
// use RealClock or a fake in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// RealClock is a Clock backed by the standard library.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time { return time.Now() }

// After returns a channel that fires once after d, per time.After.
func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
