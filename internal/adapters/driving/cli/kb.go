package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect and manage knowledge bases",
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge bases",
	RunE:  runKBList,
}

var kbShowCmd = &cobra.Command{
	Use:   "show [kb-id]",
	Short: "Show a knowledge base's version history",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBShow,
}

var kbDeleteCmd = &cobra.Command{
	Use:   "delete [kb-id]",
	Short: "Soft-delete a knowledge base",
	Long: `Removes the knowledge base's vectors from the store and archives
all its versions. Source files and metadata stay on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runKBDelete,
}

func init() {
	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbShowCmd)
	kbCmd.AddCommand(kbDeleteCmd)
	rootCmd.AddCommand(kbCmd)
}

func runKBList(cmd *cobra.Command, _ []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}
	defer application.Close()

	summaries, err := application.KB.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cmd.Println("No knowledge bases.")
		return nil
	}

	for _, summary := range summaries {
		active := summary.ActiveVersion
		if active == "" {
			active = "(archived)"
		}
		cmd.Printf("%-24s %-28s files=%-3d chunks=%-5d %.2f MB\n",
			summary.KBID, active, summary.Files, summary.Chunks, summary.SizeMB)
	}
	return nil
}

func runKBShow(cmd *cobra.Command, args []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}
	defer application.Close()

	detail, err := application.KB.Detail(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling detail: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runKBDelete(cmd *cobra.Command, args []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}
	defer application.Close()

	changed, err := application.KB.SoftDelete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("soft-deleted %s (changed=%t)\n", args[0], changed)
	return nil
}
