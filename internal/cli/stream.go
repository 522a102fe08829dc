package cli

import (
	"fmt"
	"io"
)

// streamEvents prints every server event as a line until the
// connection closes, then signals done.
func streamEvents(client *Client, out io.Writer, done chan<- struct{}) {
	defer close(done)
	for {
		env, err := client.Next()
		if err != nil {
			return
		}
		fmt.Fprintf(out, "%s %s\n", env.Event, string(env.Data))
	}
}
