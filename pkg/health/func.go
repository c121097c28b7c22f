package health

import "context"

// CheckFunc adapts a plain function into a Checker, e.g. an OpenSearch ping.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func NewCheckFunc(name string, fn func(ctx context.Context) error) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

func (c *CheckFunc) Name() string { return c.name }

func (c *CheckFunc) Check(ctx context.Context) Result {
	if err := c.fn(ctx); err != nil {
		return down(err)
	}
	return up()
}
