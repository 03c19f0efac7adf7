package commands

// Sleep exports sleep for testing.
var Sleep = sleep //nolint:gochecknoglobals // test export
