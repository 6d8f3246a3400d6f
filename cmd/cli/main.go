// logtally summarizes plain-text log files: entries per level, component and
// hour, error rate, and the time span covered.
package main

import (
	"os"

	"github.com/ccollicutt/logtally/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
