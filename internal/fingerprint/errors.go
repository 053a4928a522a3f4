package fingerprint

import "errors"

var (
	// ErrOpen reports a path that is missing, unreadable or not a
	// recognized container.
	ErrOpen = errors.New("open container")
	// ErrEmptyContainer reports a container without elementary streams.
	ErrEmptyContainer = errors.New("container has no streams")
	// ErrStreamDiscovery reports a failure while reading stream metadata
	// after the container was opened.
	ErrStreamDiscovery = errors.New("discover streams")
	// ErrEndOfStream is returned by Source.Next once every packet has been
	// delivered. It is the only error that ends a scan successfully.
	ErrEndOfStream = errors.New("end of stream")
	// ErrRead reports a demuxer failure in the middle of a container.
	ErrRead = errors.New("read packet")

	// ErrInvalidStreamCount is returned when an accumulator set is
	// requested for zero (or fewer) streams.
	ErrInvalidStreamCount = errors.New("invalid stream count")
	// ErrIndexOutOfRange reports a packet for a stream the source never
	// announced. It is a contract violation by the source.
	ErrIndexOutOfRange = errors.New("stream index out of range")
	// ErrSealed is returned when an accumulator set is used after Finalize.
	ErrSealed = errors.New("accumulators already finalized")

	// ErrNoStreams and ErrDigestLengthMismatch are combiner invariants.
	// Upstream invariants make them unreachable; seeing one is a bug.
	ErrNoStreams            = errors.New("no stream digests to combine")
	ErrDigestLengthMismatch = errors.New("stream digest lengths differ")

	// ErrInvalidState reports an engine operation issued in the wrong state.
	ErrInvalidState = errors.New("invalid engine state")
	// ErrNotFinalized is returned when results are requested before a scan
	// completed.
	ErrNotFinalized = errors.New("scan not finalized")
)
