// Package settings holds build metadata and the per-run settings of the
// fxed CLI, with helpers to carry them through a context.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "fxed"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Output formats of the final expression.
const (
	OutputText = "text"
	OutputCEL  = "cel"
)

// Run holds the settings of one invocation.
type Run struct {
	MinLogLevel int8
	ConfigFile  string
	DataFile    string
	// Output is OutputText or OutputCEL.
	Output string
	// Interactive is false for snapshot runs, which never take over the terminal.
	Interactive bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the settings of an interactive CLI run.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Output:      OutputText,
		Interactive: true,
		NoColor:     false,
		ExitOnError: true,
	}
}
