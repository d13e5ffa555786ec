package gobanlist

import "fmt"

const (
	name    = "GoBanlist"
	version = "v1.0"
)

// GetVersion returns server version.
func GetVersion() string {
	return fmt.Sprintf("%s %s", name, version)
}
