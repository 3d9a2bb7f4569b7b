package logging

import "go.uber.org/zap"

// New builds the process logger: human-readable in debug mode, JSON
// otherwise.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
