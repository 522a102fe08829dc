package main

import "github.com/quizparty/quizparty/internal/cli"

func main() {
	cli.Execute()
}
