package version

// Version is overridden at build time with -ldflags "-X ...".
var Version = "dev"

const ProtocolVersion = "2025-06-18"

var SupportedProtocolVersions = []string{
	"2025-06-18",
	"2025-03-26",
	"2024-11-05",
}
