package orderflow

// Version is the library version. It can be overridden at build time with
// -ldflags "-X github.com/nexustrade/orderflow.Version=...".
var Version = "0.1.0"
