package board

import "encoding/json"

// PartSummary is the read-only view of one part handed to an assistant.
type PartSummary struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
	State string  `json:"state"`
}

// Summary is the compact circuit description for the assistant layer.
type Summary struct {
	Components []PartSummary `json:"components"`
	Wires      int           `json:"wires"`
	Error      string        `json:"error,omitempty"`
}

// Summarize describes s together with the last solver message.
func Summarize(s Snapshot, lastErr string) Summary {
	sum := Summary{
		Components: make([]PartSummary, len(s.Components)),
		Wires:      len(s.Wires),
		Error:      lastErr,
	}
	for i, c := range s.Components {
		state := "CLOSED"
		if c.Open {
			state = "OPEN"
		}
		sum.Components[i] = PartSummary{
			Type:  c.Kind.String(),
			Value: c.Value,
			Label: c.Label,
			State: state,
		}
	}
	return sum
}

func (s Summary) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}
