package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "room [CODE]",
		Short: "Show a room's current state, or list all live rooms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listRooms(cmd)
			}
			return showRoom(cmd, args[0])
		},
	}
}

func listRooms(cmd *cobra.Command) error {
	var result struct {
		Rooms []string `json:"rooms"`
		Count int      `json:"count"`
	}
	if err := GetJSON(cfg.ServerURL, "/api/v1/rooms", &result); err != nil {
		return err
	}

	for _, code := range result.Rooms {
		fmt.Fprintln(cmd.OutOrStdout(), code)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d room(s)\n", result.Count)
	return nil
}

func showRoom(cmd *cobra.Command, code string) error {
	var result json.RawMessage
	if err := GetJSON(cfg.ServerURL, "/api/v1/rooms/"+code, &result); err != nil {
		return err
	}

	var pretty map[string]any
	if err := json.Unmarshal(result, &pretty); err != nil {
		return err
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
