package shell

import "bytes"

// elisionMarker separates head and tail when the middle of a stream was
// dropped.
const elisionMarker = "\n... [output elided] ...\n"

// RetainPolicy selects which part of an oversized stream the Collector
// keeps.
type RetainPolicy int

const (
	RetainHead RetainPolicy = iota
	RetainTail
	RetainBoth
)

// retainFor maps a truncation mode to the retention the Collector needs
// so the final trim can hand back the genuine head and tail of the
// stream rather than slices of whatever happened to be kept.
func retainFor(mode TruncateMode) RetainPolicy {
	switch mode {
	case TruncateLast:
		return RetainTail
	case TruncateBoth:
		return RetainBoth
	default:
		return RetainHead
	}
}

// Collector captures one output stream with a size cap and binary
// content detection. It implements io.Writer; bytes past the cap are
// dropped from whichever end the policy gives up, but still reported
// as written.
type Collector struct {
	MaxBytes  int
	Truncated bool
	IsBinary  bool

	policy  RetainPolicy
	head    []byte
	tail    []byte
	headMax int
	tailMax int

	bytesChecked int
	sampleSize   int
}

func NewCollector(maxBytes, sampleSize int, policy RetainPolicy) *Collector {
	c := &Collector{MaxBytes: maxBytes, sampleSize: sampleSize, policy: policy}
	switch policy {
	case RetainTail:
		c.tailMax = maxBytes
	case RetainBoth:
		c.headMax = maxBytes / 2
		c.tailMax = maxBytes - c.headMax
	default:
		c.headMax = maxBytes
	}
	return c
}

func (c *Collector) Write(p []byte) (int, error) {
	written := len(p)
	if c.IsBinary {
		return written, nil
	}

	// Binary detection only samples the first sampleSize bytes.
	if c.bytesChecked < c.sampleSize {
		toCheck := p
		if remaining := c.sampleSize - c.bytesChecked; len(toCheck) > remaining {
			toCheck = toCheck[:remaining]
		}
		if bytes.IndexByte(toCheck, 0) != -1 {
			c.IsBinary = true
			c.Truncated = true
			return written, nil
		}
		c.bytesChecked += len(toCheck)
	}

	if room := c.headMax - len(c.head); room > 0 {
		take := p
		if len(take) > room {
			take = take[:room]
		}
		c.head = append(c.head, take...)
		p = p[len(take):]
	}
	if len(p) == 0 {
		return written, nil
	}
	if c.tailMax == 0 {
		c.Truncated = true
		return written, nil
	}
	c.tail = append(c.tail, p...)
	if len(c.tail) > c.tailMax {
		c.Truncated = true
		c.tail = append(c.tail[:0:0], c.tail[len(c.tail)-c.tailMax:]...)
	}
	return written, nil
}

// String returns the collected stream, or a placeholder when binary
// content was detected. When both ends were kept and the middle was
// dropped, the gap is marked.
func (c *Collector) String() string {
	if c.IsBinary {
		return "[binary output suppressed]"
	}
	if c.policy == RetainBoth && c.Truncated {
		return string(c.head) + elisionMarker + string(c.tail)
	}
	return string(c.head) + string(c.tail)
}

// applyTruncation trims s to at most max bytes according to mode.
// Mode "all" never trims. Returns the trimmed string and whether
// anything was dropped.
func applyTruncation(s string, max int, mode TruncateMode) (string, bool) {
	if mode == TruncateAll || len(s) <= max {
		return s, false
	}
	switch mode {
	case TruncateLast:
		return s[len(s)-max:], true
	case TruncateBoth:
		half := max / 2
		if half == 0 {
			return s[:max], true
		}
		return s[:half] + elisionMarker + s[len(s)-half:], true
	default: // TruncateFirst
		return s[:max], true
	}
}
