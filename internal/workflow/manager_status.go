package workflow

// Status summarizes the manager for health reporting.
type Status struct {
	Running   bool
	Active    int
	Completed int
	Failed    int
}

// Status returns current job counts.
func (m *Manager) Status() Status {
	active, completed, failed := m.registry.Counts()
	return Status{
		Running:   m.Running(),
		Active:    active,
		Completed: completed,
		Failed:    failed,
	}
}
