package parallel

// WithSpawnHook installs a hook consulted before each worker starts. A
// non-nil error from the hook is treated as a failure to start that worker.
func WithSpawnHook(hook func(partition int) error) Option {
	return func(c *config) { c.spawnHook = hook }
}
