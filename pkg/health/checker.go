// Package health implements liveness and readiness probes.
package health

import (
	"context"
	"time"
)

const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

func up() Result { return Result{Status: StatusUp} }

func down(err error) Result { return Result{Status: StatusDown, Message: err.Error()} }
