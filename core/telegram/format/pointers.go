package format

// DerefString returns the pointed-to string or a fallback when nil.
func DerefString(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
