package main

import (
	"bufio"
	"os"
)

func stdinReader() *bufio.Reader {
	return bufio.NewReader(os.Stdin)
}
