// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/techwhisper-in/aws-ec2-ami-builder/cmd/amibuilder"

func main() {
	cmd.Execute()
}
