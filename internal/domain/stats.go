package domain

// Stats holds per-batch and aggregate routing counters. Never persisted;
// reported at the end of a run.
type Stats struct {
	AutoPublished      int
	SubmittedForReview int
	Skipped            int
	Duplicates         int
	Errors             int
}

// Merge adds other's counters into s.
func (s *Stats) Merge(other Stats) {
	s.AutoPublished += other.AutoPublished
	s.SubmittedForReview += other.SubmittedForReview
	s.Skipped += other.Skipped
	s.Duplicates += other.Duplicates
	s.Errors += other.Errors
}

// Total returns the number of items accounted for.
func (s Stats) Total() int {
	return s.AutoPublished + s.SubmittedForReview + s.Skipped + s.Duplicates + s.Errors
}
