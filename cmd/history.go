package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past analyses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the analysis log, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.history().List(ctx)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println(warnStyle.Render("还没有分析记录。"))
			return nil
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("分析记录（%d条）", len(records))))
		for _, r := range records {
			line := fmt.Sprintf("%s  %s · %s", r.Timestamp.Format("01-02 15:04"), r.Company, r.Title)
			fmt.Println(scoreStyle(r.Score).Render(fmt.Sprintf("%3d分", r.Score)) + valueStyle.Render("  "+line+"  id="+r.ID))
			if r.Greeting != "" {
				fmt.Println(valueStyle.Render("      打招呼: " + r.Greeting))
			}
		}

		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over the analysis log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.history().Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("分析统计"))
		if stats.Total == 0 {
			fmt.Println(warnStyle.Render("还没有分析记录。"))
			return nil
		}

		fmt.Println(labelStyle.Render("总分析次数: ") + valueStyle.Render(fmt.Sprintf("%d", stats.Total)))
		fmt.Println(labelStyle.Render("平均匹配度: ") + scoreStyle(stats.AverageScore).Render(fmt.Sprintf("%d", stats.AverageScore)))
		fmt.Println(labelStyle.Render("最高/最低: ") + valueStyle.Render(fmt.Sprintf("%d / %d", stats.Highest, stats.Lowest)))
		fmt.Println(labelStyle.Render("分布: ") + valueStyle.Render(
			fmt.Sprintf("高(≥75) %d · 中 %d · 低(<60) %d", stats.High, stats.Medium, stats.Low)))

		daily := ""
		for _, count := range stats.Daily {
			daily += fmt.Sprintf("%d ", count)
		}
		fmt.Println(labelStyle.Render("近7天: ") + valueStyle.Render(daily))

		companies, err := a.history().TopCompanies(ctx, 10)
		if err != nil {
			return err
		}

		if len(companies) > 0 {
			fmt.Println(labelStyle.Render("公司排行:"))
			for _, c := range companies {
				fmt.Println(valueStyle.Render(fmt.Sprintf("  %s  %d次  最高%d分", c.Company, c.Count, c.Best)))
			}
		}

		return nil
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove one record from the log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.history().Remove(ctx, args[0]); err != nil {
			return err
		}

		fmt.Println(labelStyle.Render("已删除记录 ") + valueStyle.Render(args[0]))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the whole analysis log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirm("Clear the whole analysis history?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		cleared, err := a.history().Clear(ctx)
		if err != nil {
			return err
		}

		fmt.Println(labelStyle.Render(fmt.Sprintf("已清空 %d 条记录", cleared)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyClearCmd)
}
