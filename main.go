// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/jar2native/jar2native/cmd/jar2native"

func main() {
	cmd.Execute()
}
