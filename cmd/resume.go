package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/winkovo0818/boss-copilot/internal/resume"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage your stored resumes",
	Long:  "Add, list, rename and remove resumes. The first resume (or the one you pick with set-default) is used for analysis.",
}

var resumeAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a resume from a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading resume file: %w", err)
		}

		parsed, err := resume.TextParser{}.Parse(filepath.Base(args[0]), data)
		if err != nil {
			return err
		}

		name := cmd.Flag("name").Value.String()
		if name == "" {
			name = strings.TrimSuffix(parsed.Filename, filepath.Ext(parsed.Filename))
		}

		record, err := a.resumes().Add(ctx, resume.Record{
			Name:        name,
			Content:     parsed.Content,
			FileSize:    int64(len(data)),
			ParseMethod: parsed.Method,
		})
		if err != nil {
			return err
		}

		fmt.Println(labelStyle.Render("已添加简历: ") + valueStyle.Render(fmt.Sprintf("%s (%s)", record.Name, record.ID)))
		return nil
	},
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored resumes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.resumes().List(ctx)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println(warnStyle.Render("还没有简历，先用 'resume add' 添加一份。"))
			return nil
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("简历列表（%d/%d）", len(records), resume.MaxResumes)))
		for i, r := range records {
			marker := "  "
			if i == 0 {
				marker = "★ "
			}
			fmt.Println(labelStyle.Render(marker+r.Name) + valueStyle.Render(
				fmt.Sprintf("  id=%s  %d字  %s", r.ID, len([]rune(r.Content)), r.UploadedAt.Format("2006-01-02"))))
		}

		return nil
	},
}

var resumeRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirm(fmt.Sprintf("Remove resume %s?", args[0]))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := a.resumes().Remove(ctx, args[0]); err != nil {
			return err
		}

		fmt.Println(labelStyle.Render("已删除简历 ") + valueStyle.Render(args[0]))
		return nil
	},
}

var resumeSetDefaultCmd = &cobra.Command{
	Use:   "set-default <id>",
	Short: "Make a resume the default for analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.resumes().SetDefault(ctx, args[0]); err != nil {
			return err
		}

		fmt.Println(labelStyle.Render("默认简历已切换为 ") + valueStyle.Render(args[0]))
		return nil
	},
}

var resumeRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a resume",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.resumes().Rename(ctx, args[0], args[1]); err != nil {
			return err
		}

		fmt.Println(labelStyle.Render("简历已重命名为 ") + valueStyle.Render(args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)

	resumeAddCmd.Flags().StringP("name", "n", "", "display name (defaults to the file name)")

	resumeCmd.AddCommand(resumeAddCmd)
	resumeCmd.AddCommand(resumeListCmd)
	resumeCmd.AddCommand(resumeRemoveCmd)
	resumeCmd.AddCommand(resumeSetDefaultCmd)
	resumeCmd.AddCommand(resumeRenameCmd)
}
