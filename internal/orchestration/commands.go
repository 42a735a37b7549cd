package orchestration

import "github.com/agbru/squash/internal/intake"

// Command is an action a front end dispatches into the orchestrator.
type Command interface {
	command()
}

// SelectFormat chooses a catalog format by id. Use catalog.AutoID for auto.
type SelectFormat struct {
	ID string
}

// MoveFormat shifts the selection by Delta with wrap-around.
type MoveFormat struct {
	Delta int
}

// SubmitFiles offers a drop or browse event. Only the first source is used.
type SubmitFiles struct {
	Sources []intake.Source
}

// Reset discards the outcome and returns to Selecting.
type Reset struct{}

func (SelectFormat) command() {}
func (MoveFormat) command()   {}
func (SubmitFiles) command()  {}
func (Reset) command()        {}
