package log

import "sync"

const defaultTailBuffer = 64

// Publisher is an [io.Writer] that tees every written log entry to all
// active subscriptions. The editor daemon hangs one next to its stderr
// handler so HTTP clients can tail the process log while it runs.
//
// A Write never blocks on a reader: each subscription owns a buffered
// channel, and when a slow reader falls behind its oldest buffered entry is
// dropped to make room. Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	buf    int
	closed bool
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets how many entries each subscription buffers before the
// oldest is dropped. Values below 1 are raised to 1. The default is 64.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n < 1 {
			n = 1
		}

		p.buf = n
	}
}

// NewPublisher creates a [Publisher] with the given options.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		subs: make(map[uint64]*Subscription),
		buf:  defaultTailBuffer,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Write copies b and delivers the copy to every active subscription,
// dropping the oldest buffered entry of any subscription that is full.
// It always returns len(b), nil, so a failed or absent reader can never
// break the logging path it is teed onto.
func (p *Publisher) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || len(p.subs) == 0 {
		return len(b), nil
	}

	entry := make([]byte, len(b))
	copy(entry, b)

	for _, sub := range p.subs {
		select {
		case sub.ch <- entry:
		default:
			<-sub.ch

			sub.ch <- entry
		}
	}

	return len(b), nil
}

// Subscribe registers and returns a new [Subscription]. Subscribing to a
// closed Publisher returns a subscription whose channel is already closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		pub: p,
		id:  p.nextID,
		ch:  make(chan []byte, p.buf),
	}
	p.nextID++

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subs[sub.id] = sub

	return sub
}

// Close closes every subscription channel and rejects further deliveries.
// Entries already buffered remain readable until each channel drains.
// Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	for _, sub := range p.subs {
		close(sub.ch)
	}

	p.subs = nil

	return nil
}

// Subscription receives log entries from a [Publisher].
type Subscription struct {
	pub *Publisher
	ch  chan []byte
	id  uint64
}

// C returns the channel delivering log entries. The channel closes when
// either side closes; callers must not modify the received slices.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close unregisters the subscription and closes its channel. Entries
// already buffered remain readable. Idempotent.
func (s *Subscription) Close() {
	s.pub.mu.Lock()
	defer s.pub.mu.Unlock()

	if _, ok := s.pub.subs[s.id]; !ok {
		return
	}

	delete(s.pub.subs, s.id)
	close(s.ch)
}
