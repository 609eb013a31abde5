package models

// HarvestState is the durable progress of a run: everything harvested so far
// plus the failure ledger. It is owned by the orchestrator; the checkpoint
// store only serializes it.
type HarvestState struct {
	Places   map[string][]ListingRecord
	Failures []Failure
}

// NewHarvestState returns an empty state ready for merging.
func NewHarvestState() *HarvestState {
	return &HarvestState{Places: make(map[string][]ListingRecord)}
}

// Done reports whether the given item has already been harvested.
func (s *HarvestState) Done(item WorkItem) bool {
	_, ok := s.Places[item.Key()]
	return ok
}

// Merge records the results for one item, replacing any previous entry.
func (s *HarvestState) Merge(item WorkItem, records []ListingRecord) {
	s.Places[item.Key()] = records
}

// Fail appends a ledger entry for an item that yielded nothing.
func (s *HarvestState) Fail(item WorkItem, reason string) {
	s.Failures = append(s.Failures, Failure{
		Place:   item.Place,
		Country: item.Country,
		Error:   reason,
	})
}

// RunResult holds the overall outcome of one harvesting run.
type RunResult struct {
	PlacesHarvested int
	RecordsTotal    int
	FailureCount    int
	BatchCount      int
	Resumed         int
	Engine          string
}

// RecordCount returns the total number of records across all places.
func (s *HarvestState) RecordCount() int {
	total := 0
	for _, records := range s.Places {
		total += len(records)
	}
	return total
}
