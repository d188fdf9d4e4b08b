package runner

// InputOutcome is what one input produced.
type InputOutcome struct {
	// Path is the input path, or StdinPath.
	Path string

	// Values are the strings the pattern extracted. On failure they hold
	// whatever was extracted before the error.
	Values []string

	// Error is set if the input could not be opened or the pattern failed.
	Error error
}

// Failed reports whether the input failed.
func (o InputOutcome) Failed() bool {
	return o.Error != nil
}

// Stats captures aggregate information about a run.
type Stats struct {
	// InputsDiscovered is the total number of inputs found during discovery.
	InputsDiscovered int

	// InputsProcessed is the number of inputs read without error.
	InputsProcessed int

	// InputsFailed is the number of inputs that failed.
	InputsFailed int

	// ValuesTotal is the number of extracted strings across all inputs,
	// including partial output of failed inputs.
	ValuesTotal int
}

// Result is the overall runner result.
type Result struct {
	// Inputs holds one outcome per input in discovery order.
	Inputs []InputOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any input failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.InputsFailed > 0
}

// HasValues reports whether any value was extracted.
func (r *Result) HasValues() bool {
	if r == nil {
		return false
	}
	return r.Stats.ValuesTotal > 0
}

// accumulate updates the result with an input outcome.
func (r *Result) accumulate(outcome InputOutcome) {
	r.Inputs = append(r.Inputs, outcome)
	r.Stats.ValuesTotal += len(outcome.Values)

	if outcome.Failed() {
		r.Stats.InputsFailed++
		return
	}
	r.Stats.InputsProcessed++
}
