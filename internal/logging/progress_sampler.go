package logging

// ProgressSampler thins byte-level hashing progress down to a few log lines
// per file: one when a new path starts and one each time the completed
// fraction enters a new bucket.
type ProgressSampler struct {
	bucketPercent float64
	path          string
	bucket        int
}

// NewProgressSampler returns a sampler with buckets of bucketPercent
// (default 25).
func NewProgressSampler(bucketPercent float64) *ProgressSampler {
	if bucketPercent <= 0 {
		bucketPercent = 25
	}
	return &ProgressSampler{bucketPercent: bucketPercent, bucket: -1}
}

// Sample reports whether progress for path at hashed of size bytes should be
// logged. A size <= 0 means the total is unknown; only the first sample for
// such a path is emitted.
func (s *ProgressSampler) Sample(path string, hashed, size int64) bool {
	if s == nil {
		return true
	}
	emit := false
	if path != s.path {
		s.path = path
		s.bucket = -1
		emit = true
	}
	if size <= 0 {
		return emit
	}
	percent := float64(hashed) * 100 / float64(size)
	if percent > 100 {
		percent = 100
	}
	if b := int(percent / s.bucketPercent); b > s.bucket {
		s.bucket = b
		emit = true
	}
	return emit
}
