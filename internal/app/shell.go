package app

// ShellContextFunc produces names to pre-load into an interactive shell.
type ShellContextFunc func() map[string]any

// ShellContextProcessor registers a producer. Producers run only when a
// shell session starts.
func (a *Application) ShellContextProcessor(fn ShellContextFunc) {
	a.shellProcessors = append(a.shellProcessors, fn)
}

// MakeShellContext invokes every producer in registration order and
// merges the results; later keys override earlier ones.
func (a *Application) MakeShellContext() map[string]any {
	out := make(map[string]any)
	for _, fn := range a.shellProcessors {
		for k, v := range fn() {
			out[k] = v
		}
	}
	return out
}
