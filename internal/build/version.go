package build

// Version is overridden at link time with -ldflags "-X github.com/integrail/snapsearch/internal/build.Version=...".
var Version = "dev"
