package main

import (
	"os"

	"aurabox/cmd"
)

// @title           AuraBox Widget API
// @version         1.0
// @description     Mediokart 站内聊天组件服务
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
