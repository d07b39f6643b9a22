package postgres

import (
	"github.com/leapstack-labs/dbcomp/pkg/driver"
)

// Register the driver on import so a blank import is enough to make
// "postgres" available through the registry.
func init() {
	driver.Register(New(nil))
}
