package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	assert.Equal(t, &Run{
		MinLogLevel: 0,
		Output:      OutputText,
		Interactive: true,
		ExitOnError: true,
	}, got)
}

func TestVersionInformationDefaults(t *testing.T) {
	assert.Equal(t, "fxed", CliBinaryName)
	assert.Equal(t, "unknown", VersionInformation.Commit)
	assert.NotEmpty(t, VersionInformation.BuildVersion)
}
