package reminder

import (
	"sync"
	"time"
)

// DefaultBannerDuration is how long a banner stays up without being closed.
const DefaultBannerDuration = 5 * time.Second

// Banner is the in-app reminder strip. It shows one message at a time: a new
// message replaces the visible one and restarts the hide timer.
type Banner struct {
	mu       sync.Mutex
	ttl      time.Duration
	text     string
	visible  bool
	timer    *time.Timer
	gen      uint64
	onChange func(text string, visible bool)
}

func NewBanner(ttl time.Duration) *Banner {
	if ttl <= 0 {
		ttl = DefaultBannerDuration
	}
	return &Banner{ttl: ttl}
}

// OnChange registers a callback run after every show or hide. It is called
// without the banner lock held.
func (b *Banner) OnChange(fn func(text string, visible bool)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Show replaces the banner text and restarts the hide timer.
func (b *Banner) Show(text string) {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	b.text = text
	b.visible = true
	b.timer = time.AfterFunc(b.ttl, func() { b.expire(gen) })
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(text, true)
	}
}

// expire hides the banner unless a later Show superseded the timer.
func (b *Banner) expire(gen uint64) {
	if fn, ok := b.close(gen); ok && fn != nil {
		fn("", false)
	}
}

// Hide closes the banner; closing an already hidden banner does nothing.
func (b *Banner) Hide() {
	if fn, ok := b.close(0); ok && fn != nil {
		fn("", false)
	}
}

// Dismiss closes the banner without running the OnChange callback. It is
// for the observer itself, which already knows the banner is gone.
func (b *Banner) Dismiss() {
	b.close(0)
}

// close hides the banner and reports whether it was visible, along with the
// callback registered at that moment. A non-zero gen only closes the banner
// shown under that generation.
func (b *Banner) close(gen uint64) (func(text string, visible bool), bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.visible || (gen != 0 && gen != b.gen) {
		return nil, false
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.visible = false
	b.text = ""
	return b.onChange, true
}

// Current returns the visible text, if any.
func (b *Banner) Current() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, b.visible
}
