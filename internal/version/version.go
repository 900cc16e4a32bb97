package version

// Version is the current version of tabprof.
// Can be overridden at build time with -ldflags "-X ...version.Version=..."
var Version = "0.4.0"

// Name is the application name.
const Name = "tabprof"

// Description is a short description of the application.
const Description = "Tabular dataset profiler for automated model configuration"
