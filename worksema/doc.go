// File: worksema/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package worksema implements an adaptive work-notification primitive for a
// single consumer thread fed by any number of producers. The consumer waits
// with minimal latency and minimal idle CPU: a bounded low-power spin phase
// first, then a kernel-semaphore block. A separate observer may wait until
// the consumer has drained to idle.
//
// The whole state machine lives in one atomic word manipulated exclusively
// through compare-and-swap retry loops; there is no lock.
package worksema
