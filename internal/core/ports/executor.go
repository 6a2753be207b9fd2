package ports

import (
	"context"
	"time"
)

// Command describes one toolchain invocation.
type Command struct {
	Name string
	Args []string

	// Env holds variables merged over the inherited environment.
	Env map[string]string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// CommandResult captures the outcome of a finished command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CommandExecutor defines the interface for running external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type CommandExecutor interface {
	// Run executes the command and waits for it to finish.
	//
	// A non-zero exit is not an error: the caller inspects ExitCode. Run
	// returns an error only when the command could not be started or the
	// context was cancelled.
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}
