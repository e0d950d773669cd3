package schedule

// busyIndexer gives a unique offset to a (teacher, day, slot) combination and vice versa, so the busy index
// of a run is a single flat array instead of nested maps
type busyIndexer struct {
	teachers int
	days     int
	slots    int
}

func newBusyIndexer(teachers, days, slots int) busyIndexer {
	return busyIndexer{
		teachers: teachers,
		days:     days,
		slots:    slots,
	}
}

// Index expects teacher and slot as zero-based indices and day in 1..days
func (indexer busyIndexer) Index(teacher, day, slot int) int {
	return slot + indexer.slots*(day-1) + indexer.slots*indexer.days*teacher
}

func (indexer busyIndexer) Attributes(index int) (teacher, day, slot int) {
	slot = index % indexer.slots
	index = index / indexer.slots

	day = index%indexer.days + 1
	index = index / indexer.days

	teacher = index % indexer.teachers

	return teacher, day, slot
}

func (indexer busyIndexer) Size() int {
	return indexer.teachers * indexer.days * indexer.slots
}
