package domain

// StepRecord summarizes one Monte Carlo step for the step journal.
// It deliberately keeps no trajectory frames.
type StepRecord struct {
	Step  int    `json:"step"`
	Mover string `json:"mover"`

	Samples []SampleRecord `json:"samples"`
	Changed *SampleSetDiff `json:"changed,omitempty"`
}

// SampleRecord is the journal entry of one returned sample.
type SampleRecord struct {
	Replica     int     `json:"replica"`
	Ensemble    string  `json:"ensemble"`
	Mover       string  `json:"mover"`
	Accepted    bool    `json:"accepted"`
	Probability float64 `json:"probability"`
	Length      int     `json:"length"`
	Reverted    bool    `json:"reverted,omitempty"`
}

// NewSampleRecord summarizes s.
func NewSampleRecord(s Sample) SampleRecord {
	rec := SampleRecord{
		Replica:  s.Replica,
		Ensemble: NameOf(s.Ensemble),
		Length:   s.Trajectory.Len(),
	}
	if s.Details != nil {
		rec.Mover = s.Details.MoverName()
		rec.Accepted = s.Details.IsAccepted()
		rec.Probability = s.Details.AcceptanceProbability
		rec.Reverted = s.Details.Reverted
	}
	return rec
}

// Accepted reports whether every sample of the step was accepted.
func (r StepRecord) Accepted() bool {
	if len(r.Samples) == 0 {
		return false
	}
	for _, s := range r.Samples {
		if !s.Accepted {
			return false
		}
	}
	return true
}
