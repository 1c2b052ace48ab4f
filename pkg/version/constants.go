package version

// Probe bounds for the lower-bound search over a constraint range.
const (
	MAX_MAJOR = 20
	MAX_MINOR = 50
	MAX_PATCH = 50
)
