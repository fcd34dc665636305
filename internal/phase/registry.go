package phase

import "sort"

// Registry manages registered phase commands.
type Registry struct {
	commands map[Name]Command
}

// NewRegistry creates a new phase registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[Name]Command)}
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Get retrieves a command by name.
func (r *Registry) Get(name Name) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns all registered phase names, sorted.
func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
