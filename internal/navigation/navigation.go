// Package navigation carries the fire-and-forget "go to route" side effect
// that follows a completed wizard or a submitted form.
package navigation

import "sync"

// Route paths used after completion.
const (
	PortfolioForm = "/portfolio-form"
	Portfolio     = "/portfolio"
)

// Navigator moves the user to another route.
type Navigator interface {
	NavigateTo(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) NavigateTo(route string) { f(route) }

// Recorder remembers the most recent route. Surfaces that cannot redirect
// themselves (HTTP responses, the terminal UI) report it back to the caller.
type Recorder struct {
	mu    sync.Mutex
	route string
}

func (r *Recorder) NavigateTo(route string) {
	r.mu.Lock()
	r.route = route
	r.mu.Unlock()
}

// Route returns the last route navigated to, or "".
func (r *Recorder) Route() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.route
}
