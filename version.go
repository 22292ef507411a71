package arbor

// Version is the current release of the Arbor module.
var Version = "0.3.0"
