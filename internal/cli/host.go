package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quizparty/quizparty/internal/model"
)

func newHostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Create a game and control it interactively",
		Long: `host creates a new game and prints its room code, then streams the
room's events. Commands on stdin:

  start   start the game
  end     end the game and show the leaderboard
  quit    disconnect (this destroys the room)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Send(model.EventCreateGame, nil); err != nil {
				return err
			}

			done := make(chan struct{})
			go streamEvents(client, cmd.OutOrStdout(), done)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				switch scanner.Text() {
				case "start":
					if err := client.Send(model.EventStartGame, nil); err != nil {
						return err
					}
				case "end":
					if err := client.Send(model.EventEndGame, nil); err != nil {
						return err
					}
				case "quit":
					return nil
				default:
					fmt.Fprintln(cmd.ErrOrStderr(), "commands: start, end, quit")
				}
			}

			<-done
			return scanner.Err()
		},
	}
}
