package arbor

// Version is the release of the library and the arbor binary.
// Release builds override it with -ldflags "-X github.com/aretw0/arbor.Version=...".
var Version = "0.1.0"
