package pgsql

// SetNameGenerator replaces the statement name source of c.
func SetNameGenerator(c *Connection, fn func() string) {
	c.handle.newName = fn
}
