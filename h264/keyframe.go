package h264

import (
	"sync"
	"time"
)

// PLIInterval is the minimum time between key frames forced by picture
// loss indications.
const PLIInterval = 3 * time.Second

// keyFramePolicy decides which frames are forced to be key frames. The
// first two frames always are, so a receiver that missed the first one
// still starts quickly.
type keyFramePolicy struct {
	mu          sync.Mutex
	now         func() time.Time
	force       bool
	second      bool
	lastRequest time.Time
}

func newKeyFramePolicy(now func() time.Time) *keyFramePolicy {
	if now == nil {
		now = time.Now
	}
	return &keyFramePolicy{
		now:         now,
		force:       true,
		second:      true,
		lastRequest: now(),
	}
}

// next reports whether the frame about to be encoded must be a key frame.
func (p *keyFramePolicy) next() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.force {
		return false
	}
	if p.second {
		p.second = false
	} else {
		p.force = false
	}
	return true
}

// request asks for a key frame on behalf of a PLI or FIR. Requests within
// PLIInterval of the previous accepted one are ignored.
func (p *keyFramePolicy) request() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.now()
	if !t.After(p.lastRequest.Add(PLIInterval)) {
		return false
	}
	p.lastRequest = t
	p.force = true
	return true
}
