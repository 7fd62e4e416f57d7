// Command depend installs third-party build tools from their upstream
// git repositories.
package main

import "github.com/arsenez2006/depend/cmd/depend/internal"

func main() {
	internal.Execute()
}
