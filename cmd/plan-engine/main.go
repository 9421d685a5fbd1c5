package main

import "github.com/LENAX/plan-engine/pkg/cli/cmd"

// CLI工具入口
func main() {
	cmd.Execute()
}
