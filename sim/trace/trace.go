package trace

// SimulationTrace collects state records during one simulation run.
type SimulationTrace struct {
	RunID   string
	Records []StateRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(runID string) *SimulationTrace {
	return &SimulationTrace{
		RunID:   runID,
		Records: make([]StateRecord, 0, 64),
	}
}

// Record appends a state record, assigning its sequence number.
func (st *SimulationTrace) Record(record StateRecord) {
	record.Seq = len(st.Records)
	st.Records = append(st.Records, record)
}

// Len returns the number of recorded snapshots.
func (st *SimulationTrace) Len() int {
	if st == nil {
		return 0
	}
	return len(st.Records)
}

// Last returns the most recent record and false if the trace is empty.
func (st *SimulationTrace) Last() (StateRecord, bool) {
	if st.Len() == 0 {
		return StateRecord{}, false
	}
	return st.Records[len(st.Records)-1], true
}
