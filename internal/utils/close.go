package utils

import "io"

// maxDrain bounds how much of an unread response body is discarded before
// closing. Larger leftovers are not worth keeping the connection for.
const maxDrain = 64 << 10

// DrainClose discards the rest of an HTTP body and closes it, so the
// underlying keep-alive connection goes back to the pool.
func DrainClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, maxDrain))
	_ = rc.Close()
}
