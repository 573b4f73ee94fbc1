package projection

import "fmt"

// InsufficientDataError reports a series shorter than the fitting window.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d observations, need %d", e.Have, e.Need)
}

// InvalidWindowError reports a window too small to define a slope.
type InvalidWindowError struct {
	Window int
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window %d: at least 2 observations are required", e.Window)
}
