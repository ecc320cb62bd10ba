package model

// Builder turns step definitions into concrete steps.
type Builder interface {
	Build(def StepDefinition, traveler int) (Step, error)
}
