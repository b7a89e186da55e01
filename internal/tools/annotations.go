package tools

// ReadOnlyAnnotations marks a tool as pure: no side effects, same input gives
// the same output.
func ReadOnlyAnnotations() map[string]bool {
	return map[string]bool{
		"readOnlyHint":    true,
		"destructiveHint": false,
		"idempotentHint":  true,
		"openWorldHint":   false,
	}
}
