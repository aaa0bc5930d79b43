package configurator

import "fmt"

// Navigator tracks the current step index. The index always stays within
// [0, steps-1]; Next and Previous clamp at the ends.
type Navigator struct {
	steps   int
	current int
}

// NewNavigator starts at step 0 of a plan with the given number of steps
func NewNavigator(steps int) *Navigator {
	if steps < 1 {
		steps = 1
	}
	return &Navigator{steps: steps}
}

// Current returns the current step index
func (n *Navigator) Current() int {
	return n.current
}

// Len returns the number of steps
func (n *Navigator) Len() int {
	return n.steps
}

// Next advances one step, stopping at the last step
func (n *Navigator) Next() int {
	if n.current < n.steps-1 {
		n.current++
	}
	return n.current
}

// Previous goes back one step, stopping at the first step
func (n *Navigator) Previous() int {
	if n.current > 0 {
		n.current--
	}
	return n.current
}

// JumpTo moves to any valid index
func (n *Navigator) JumpTo(index int) error {
	if index < 0 || index >= n.steps {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrStepOutOfRange, index, n.steps-1)
	}
	n.current = index
	return nil
}

// AtEnd reports whether the current step is the last one (Summary)
func (n *Navigator) AtEnd() bool {
	return n.current == n.steps-1
}
