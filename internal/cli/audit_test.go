package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCalibrationConfigIsValid(t *testing.T) {
	cfg := defaultCalibrationConfig()
	assert.NoError(t, cfg.Validate())
}
