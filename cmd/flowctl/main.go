// cmd/flowctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/henrylimaSaas/ArchFlow-master/client"
)

var (
	baseURL string
	token   string
)

func api() *client.API {
	return client.New(client.Session{BaseURL: baseURL, Token: token})
}

var rootCmd = &cobra.Command{
	Use:   "flowctl",
	Short: "Inspect and drive an ArchFlow board from the terminal",
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Exchange credentials for a bearer token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := api().Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("export ARCHFLOW_TOKEN=%s\n", res.Token)
		return nil
	},
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the board: columns in order with their tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := client.NewMirror(api())
		if err := m.Refresh(cmd.Context()); err != nil {
			return err
		}
		state := m.State()
		for _, col := range state.Columns {
			fmt.Printf("%s (%d)\n", col.Status.Name, len(col.TaskIDs))
			for _, id := range col.TaskIDs {
				t := state.Tasks[id]
				fmt.Printf("  %s  [%s] %s\n", t.ID, t.Priority, t.Title)
			}
		}
		if len(state.Unassigned) > 0 {
			fmt.Printf("unassigned (%d)\n", len(state.Unassigned))
			for _, id := range state.Unassigned {
				t := state.Tasks[id]
				fmt.Printf("  %s  [%s] %s\n", t.ID, t.Priority, t.Title)
			}
		}
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <task-id> <status-id>",
	Short: "Move a task to a column, optimistic-first like the board UI",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("bad task id: %w", err)
		}
		statusID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("bad status id: %w", err)
		}
		m := client.NewMirror(api())
		if err := m.Refresh(cmd.Context()); err != nil {
			return err
		}
		drag, err := m.BeginDrag(taskID)
		if err != nil {
			return err
		}
		res := drag.Drop(cmd.Context(), client.DropTarget{StatusID: &statusID})
		if err := <-res.Done; err != nil {
			return fmt.Errorf("move rejected, board reverted: %w", err)
		}
		if res.NonDurable {
			fmt.Println("already in that column; nothing persisted")
			return nil
		}
		fmt.Println("moved")
		return nil
	},
}

var statusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "List the office's workflow statuses in board order",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := api().Statuses(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range list {
			fmt.Printf("%d  %s  %s %s\n", s.Position, s.ID, s.Name, s.Color)
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", envOr("ARCHFLOW_URL", "http://127.0.0.1:8080"), "server base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ARCHFLOW_TOKEN"), "bearer token")
	rootCmd.AddCommand(loginCmd, boardCmd, moveCmd, statusesCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
