package version

// Name for this
const Name string = "iconstub"

// Version for this
var Version = "0.1.0" //nostyle:repetition

// Revision for this
var Revision = "HEAD" //nostyle:repetition
