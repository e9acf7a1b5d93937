package model

// StepInfo describes a step of a pipeline.
type StepInfo struct {
	// Name is unique within a pipeline.
	Name string
	// Class is the registered step function the step runs.
	Class string
	Skip  bool
}

// StartStep and EndStep frame every pipeline. Steps without dependencies
// follow StartStep and EndStep follows every step nothing depends on.
var (
	StartStep = &StepInfo{Name: "start"}
	EndStep   = &StepInfo{Name: "end"}
)

// Reserved reports whether name is used by StartStep or EndStep.
func Reserved(name string) bool {
	return name == StartStep.Name || name == EndStep.Name
}
