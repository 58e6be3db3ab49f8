// ABOUTME: Version information for readaloud
// ABOUTME: Shared by the binaries for banners and logs
package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=..."
var Version = "0.1.0"

const (
	Product      = "ReadAloud"
	Manufacturer = "ReadAloud"
)

// String returns "Product Version"
func String() string {
	return Product + " " + Version
}
