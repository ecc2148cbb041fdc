// Command joiny runs the party planning API and its maintenance tasks.
//
// @title Joiny API
// @version 1.0
// @description Party planning backend: events, invite codes, participants and shared todos.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"fmt"
	"os"

	"joiny/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
