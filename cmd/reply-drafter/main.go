// reply-drafter generates business email reply drafts for Gmail threads.
package main

import (
	"os"

	"github.com/hal9000y/gmail-reply-drafter/cmd/reply-drafter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
