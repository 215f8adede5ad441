package hooks

// Hooks is the hooks section of a wizard definition.
type Hooks struct {
	OnFinish []*Hook `yaml:"on_finish,omitempty"`
}

// Hook defines a single shell command.
type Hook struct {
	Command    string `yaml:"command"`
	Timeout    int    `yaml:"timeout,omitempty"` // seconds, default 30
	PipeOutput bool   `yaml:"pipe_output,omitempty"`
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
