// Command c2patext embeds, extracts, and verifies signed provenance
// manifests in plain text from the command line.
package main

import "github.com/encypherai/c2patext/cmd/c2patext/cmd"

func main() {
	cmd.Execute()
}
