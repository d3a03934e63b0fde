package radio

import (
	"fmt"
	"sync"
)

// Air hands out Ether endpoints by channel name, so two sessions that tune
// to the same channel can hear each other. Thread-safe.
type Air struct {
	mu       sync.Mutex
	opts     EtherOptions
	channels map[string]*channel
}

type channel struct {
	ether *Ether
	used  [2]bool
}

// NewAir creates an empty set of channels. Every channel's medium uses opts.
func NewAir(opts EtherOptions) *Air {
	return &Air{
		opts:     opts,
		channels: make(map[string]*channel),
	}
}

// Tune claims a free endpoint on the named channel. The returned release
// func powers the endpoint down and frees it; it is safe to call twice.
func (a *Air) Tune(name string) (*Endpoint, func(), error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch, ok := a.channels[name]
	if !ok {
		ch = &channel{ether: NewEther(a.opts)}
		a.channels[name] = ch
	}

	slot := -1
	for i, used := range ch.used {
		if !used {
			slot = i
			break
		}
	}
	if slot < 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrChannelBusy, name)
	}
	ch.used[slot] = true

	ep := ch.ether.ends[slot]
	var once sync.Once
	release := func() {
		once.Do(func() {
			ep.PowerDown()
			a.release(name, ch, slot)
		})
	}
	return ep, release, nil
}

func (a *Air) release(name string, ch *channel, slot int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch.used[slot] = false
	if !ch.used[0] && !ch.used[1] && a.channels[name] == ch {
		delete(a.channels, name)
	}
}

// Occupancy returns how many endpoints are claimed on the named channel.
func (a *Air) Occupancy(name string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch, ok := a.channels[name]
	if !ok {
		return 0
	}
	n := 0
	for _, used := range ch.used {
		if used {
			n++
		}
	}
	return n
}
