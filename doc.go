// Package fairq provides bounded, fair access control over reusable
// resources.
//
// It is built from three pieces: semaphore, a counting gate that admits
// requesters strictly in arrival order and supports per-request wait
// bounds; ring, a fixed-capacity FIFO buffer; and pool, which composes the
// two into a resource pool with lazy provisioning. This root package holds
// the error values shared by all of them.
package fairq
