package configurator

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyLoaded    = errors.New("session already loaded")
	ErrNotReady         = errors.New("session not ready")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrUnknownGroup     = errors.New("unknown component group")
	ErrStepOutOfRange   = errors.New("step index out of range")
	ErrUnknownLeaseTerm = errors.New("unknown lease term")
)

// CatalogLoadError is the terminal failure of a session's catalog fetch
type CatalogLoadError struct {
	ProductID string
	Err       error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("failed to fetch product data for %s: %v", e.ProductID, e.Err)
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}
