package console

// Capabilities describes the limits and current registry usage of an
// initialized console.
type Capabilities struct {
	MaxUserCommands   int
	MaxParentCommands int
	HistorySize       int
	MaxLineLength     int
	UserCommands      int
	ParentCommands    int
}

// Capabilities reports limits and usage. It fails with ErrLifecycleOrder
// before Init and after Term.
func (c *Console) Capabilities() (Capabilities, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateUninitialized {
		return Capabilities{}, transitionError(c.state, "capabilities")
	}
	return Capabilities{
		MaxUserCommands:   c.params.MaxUserCommands,
		MaxParentCommands: c.params.MaxParentCommands,
		HistorySize:       c.params.HistorySize,
		MaxLineLength:     c.params.MaxLineLength,
		UserCommands:      c.registry.Len(),
		ParentCommands:    c.registry.Parents(),
	}, nil
}
