// Command iniedit reads and edits ini files.
package main

import (
	"os"

	"github.com/gopasspw/iniedit/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
