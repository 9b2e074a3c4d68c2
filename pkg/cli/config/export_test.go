package config

// SetPath sets the taxonomy file path directly, bypassing flag parsing.
func (t *Taxonomy) SetPath(path string) {
	t.path = path
}
