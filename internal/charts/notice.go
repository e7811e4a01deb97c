package charts

// Level grades a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Origin names the operation a notice came from.
type Origin string

const (
	OriginConnect    Origin = "connect"
	OriginParameters Origin = "parameters"
	OriginFetch      Origin = "fetch"
	OriginAxes       Origin = "axes"
)

// Notice is an inline, dismissable message produced by a configurator operation.
type Notice struct {
	Level  Level
	Origin Origin
	Text   string
}

// ParameterOutcome distinguishes the three results of parameter discovery.
type ParameterOutcome int

const (
	// ParametersFound: the object is a function with at least one input.
	ParametersFound ParameterOutcome = iota
	// ParametersNotApplicable: the object takes no parameters (a view).
	ParametersNotApplicable
	// ParametersFailed: the describe call failed for another reason.
	ParametersFailed
)

func (o ParameterOutcome) String() string {
	switch o {
	case ParametersFound:
		return "found"
	case ParametersNotApplicable:
		return "not_applicable"
	case ParametersFailed:
		return "failed"
	}
	return "unknown"
}

// ParameterResult is the outcome of LoadParameters.
type ParameterResult struct {
	Outcome    ParameterOutcome
	Parameters []ObjectParameter
	Err        error
}
