package version

import "fmt"

// Releases are named after Concorde production airframes.
var concordeFleet = []string{
	"F-BTSC",
	"G-BOAC",
	"F-BVFA",
	"G-BOAA",
	"F-BVFB",
	"G-BOAB",
	"F-BVFC",
	"G-BOAD",
}

const (
	ClientMajor = 0
	ClientMinor = 1
	ClientPatch = 0
)

func Codename() string {
	if ClientMinor < len(concordeFleet) {
		return concordeFleet[ClientMinor]
	}
	return fmt.Sprintf("post-concorde-%d", ClientMinor)
}

func Client() string {
	return fmt.Sprintf("%d.%d.%d", ClientMajor, ClientMinor, ClientPatch)
}

// Full is the version with its codename, e.g. "0.1.0 (G-BOAC)".
func Full() string {
	return fmt.Sprintf("%s (%s)", Client(), Codename())
}
