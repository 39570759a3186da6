package kafka

import (
	"sync"

	"github.com/segmentio/kafka-go"
)

type topicPartition struct {
	topic     string
	partition int
}

type partitionOffsets struct {
	inFlight []kafka.Message // fetch order
	handled  map[int64]bool
}

// offsetTracker records fetched messages per partition and releases them for
// commit strictly in fetch order.
type offsetTracker struct {
	mu    sync.Mutex
	parts map[topicPartition]*partitionOffsets
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{parts: map[topicPartition]*partitionOffsets{}}
}

func (t *offsetTracker) track(m kafka.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.partition(m)
	p.inFlight = append(p.inFlight, m)
}

// ack marks m handled. It returns the last message of the handled run at the
// head of m's partition, which is safe to commit, or false when an earlier
// message is still outstanding.
func (t *offsetTracker) ack(m kafka.Message) (kafka.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.partition(m)
	p.handled[m.Offset] = true

	var (
		last kafka.Message
		ok   bool
	)
	for len(p.inFlight) > 0 && p.handled[p.inFlight[0].Offset] {
		last, ok = p.inFlight[0], true
		delete(p.handled, last.Offset)
		p.inFlight = p.inFlight[1:]
	}
	return last, ok
}

func (t *offsetTracker) partition(m kafka.Message) *partitionOffsets {
	k := topicPartition{m.Topic, m.Partition}
	p, ok := t.parts[k]
	if !ok {
		p = &partitionOffsets{handled: map[int64]bool{}}
		t.parts[k] = p
	}
	return p
}
