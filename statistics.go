package memarena

import "github.com/launchdarkly/go-jsonstream/v3/jwriter"

// Statistics is an aggregate of arena usage counters. Arenas add their current
// state into a Statistics object via their AddStatistics methods, so one object
// can be carried across several arenas to produce module-wide totals.
type Statistics struct {
	// ArenaCount is the number of arenas that contributed to this aggregate
	ArenaCount int
	// CapacityBytes is the total byte capacity of the contributing arenas. For
	// a virtual-memory arena this is the reserved size, not the committed size.
	CapacityBytes int
	// CommittedBytes is the number of bytes backed by usable memory. For a
	// plain arena this equals its capacity.
	CommittedBytes int
	// AllocationBytes is the number of bytes below the bump cursors, including
	// alignment padding and not-yet-coalesced freed ranges
	AllocationBytes int
	// PendingFreeCount is the number of out-of-order frees currently recorded
	// for later coalescing
	PendingFreeCount int
	// PendingFreeBytes is the total size of the recorded out-of-order frees
	PendingFreeBytes int
	// LeakedFreeCount is the number of out-of-order frees that could not be
	// recorded because the pending table was full. These bytes are unreachable
	// until the owning arena is reset.
	LeakedFreeCount int
	// LeakedFreeBytes is the total size of the dropped out-of-order frees
	LeakedFreeBytes int
}

func (s *Statistics) Clear() {
	*s = Statistics{}
}

func (s *Statistics) Add(other *Statistics) {
	s.ArenaCount += other.ArenaCount
	s.CapacityBytes += other.CapacityBytes
	s.CommittedBytes += other.CommittedBytes
	s.AllocationBytes += other.AllocationBytes
	s.PendingFreeCount += other.PendingFreeCount
	s.PendingFreeBytes += other.PendingFreeBytes
	s.LeakedFreeCount += other.LeakedFreeCount
	s.LeakedFreeBytes += other.LeakedFreeBytes
}

// WriteJson populates a json object with this aggregate's counters
func (s *Statistics) WriteJson(json jwriter.ObjectState) {
	json.Name("Arenas").Int(s.ArenaCount)
	json.Name("CapacityBytes").Int(s.CapacityBytes)
	json.Name("CommittedBytes").Int(s.CommittedBytes)
	json.Name("AllocationBytes").Int(s.AllocationBytes)
	json.Name("PendingFrees").Int(s.PendingFreeCount)
	json.Name("PendingFreeBytes").Int(s.PendingFreeBytes)
	json.Name("LeakedFrees").Int(s.LeakedFreeCount)
	json.Name("LeakedFreeBytes").Int(s.LeakedFreeBytes)
}

// JsonString renders the aggregate as a JSON document, for diagnostic dumps.
func (s *Statistics) JsonString() string {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	s.WriteJson(obj)
	obj.End()

	return string(writer.Bytes())
}
