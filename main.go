/*
Copyright © 2025 vistamin
*/
package main

import (
	"github.com/vistamin/starchive/cmd"
	"github.com/vistamin/starchive/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
