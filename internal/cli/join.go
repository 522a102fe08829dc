package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizparty/quizparty/internal/model"
)

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join CODE NAME",
		Short: "Join a game as a player",
		Long: `join enters the room with the given code under the given display
name, then streams the room's events. Commands on stdin:

  answer INDEX POINTS   submit an answer for a question
  quit                  leave the game`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			err = client.Send(model.EventJoinGame, model.JoinGamePayload{
				RoomCode:   args[0],
				PlayerName: args[1],
			})
			if err != nil {
				return err
			}

			done := make(chan struct{})
			go streamEvents(client, cmd.OutOrStdout(), done)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}

				switch fields[0] {
				case "answer":
					if len(fields) != 3 {
						fmt.Fprintln(cmd.ErrOrStderr(), "usage: answer INDEX POINTS")
						continue
					}
					index, err1 := strconv.Atoi(fields[1])
					points, err2 := strconv.Atoi(fields[2])
					if err1 != nil || err2 != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "usage: answer INDEX POINTS")
						continue
					}
					err := client.Send(model.EventSubmitAnswer, model.SubmitAnswerPayload{
						QuestionIndex: index,
						Points:        points,
					})
					if err != nil {
						return err
					}
				case "quit":
					return nil
				default:
					fmt.Fprintln(cmd.ErrOrStderr(), "commands: answer INDEX POINTS, quit")
				}
			}

			<-done
			return scanner.Err()
		},
	}
}
