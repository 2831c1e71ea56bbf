package topology

var describe = map[Kind]string{
	Empty:    "The board is empty. Add some components.",
	Open:     "The circuit is not closed.",
	Short:    "There is no load. The battery is shorted!",
	Series:   "This is a series circuit.",
	Parallel: "This is a parallel circuit.",
	Complex:  "This is a mixed series-parallel circuit.",
}

type hintKey struct {
	target Target
	actual Kind
}

var hints = map[hintKey]string{
	{TargetSeries, Parallel}:   "Try removing the middle branch so the current has only one path.",
	{TargetSeries, Complex}:    "Try removing branches until every part sits in a single loop.",
	{TargetSeries, Open}:       "Wire the parts end to end and close every switch.",
	{TargetParallel, Series}:   "Try connecting the two loads side by side across the battery.",
	{TargetParallel, Complex}:  "Connect each load directly across the battery terminals.",
	{TargetParallel, Open}:     "Give each load its own path from one battery terminal to the other.",
	{TargetSeries, Short}:      "Put a resistor or a bulb in the loop.",
	{TargetParallel, Short}:    "Put a resistor or a bulb in each branch.",
	{TargetSeries, Empty}:      "Start with a battery and a bulb.",
	{TargetParallel, Empty}:    "Start with a battery and two bulbs.",
	{TargetSeries, Series}:     "Well done! The same current flows through every part.",
	{TargetParallel, Parallel}: "Well done! Every branch sees the full battery voltage.",
}

// Feedback is the guidance text for r when the learner is building t.
func Feedback(t Target, r Result) string {
	text := r.Feedback
	if text == "" {
		text = describe[r.Kind]
	}
	if t == NoTarget {
		return text
	}
	if hint, ok := hints[hintKey{t, r.Kind}]; ok {
		return text + " " + hint
	}
	return text
}
