package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/greeting"
)

const greetScoreGate = 70

var greetCmd = &cobra.Command{
	Use:   "greet",
	Short: "Generate outreach greetings for the analyzed job",
	Long: "Generates three greeting styles (casual, formal, creative) for the current job posting. " +
		"Postings scoring below 70 are considered not worth applying to; use --force to greet anyway.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGreet(cmd)
	},
}

func init() {
	rootCmd.AddCommand(greetCmd)

	greetCmd.Flags().StringP("job-file", "f", "", "JSON file with the job posting (defaults to the last analyzed one)")
	greetCmd.Flags().StringP("resume", "r", "", "resume id to use instead of the default one")
	greetCmd.Flags().StringP("style", "s", "all", "greeting style: casual, formal, creative or all")
	greetCmd.Flags().Bool("force", false, "generate greetings even for a low-scoring posting")
}

func runGreet(cmd *cobra.Command) error {
	ctx := cmd.Context()

	style := cmd.Flag("style").Value.String()
	if style != "all" {
		if _, ok := (&greeting.Set{}).ByStyle(greeting.Style(style)); !ok {
			return fmt.Errorf("unknown greeting style %q (want casual, formal, creative or all)", style)
		}
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	posting, err := loadPosting(ctx, a, cmd.Flag("job-file").Value.String())
	if err != nil {
		return err
	}

	record, err := selectResume(ctx, a.resumes(), cmd.Flag("resume").Value.String())
	if err != nil {
		return err
	}

	engine, err := a.newEngine(ctx)
	if err != nil {
		return errNotConfiguredHint(err)
	}

	// The verdict is served from cache when greet follows analyze.
	verdict, err := engine.Analyze(ctx, posting, record.Content)
	if err != nil {
		return err
	}

	if verdict.Score < greetScoreGate && cmd.Flag("force").Value.String() != "true" {
		fmt.Println(warnStyle.Render(fmt.Sprintf("匹配度较低（%d < %d分），不建议投递该岗位。如仍要生成打招呼语，请加 --force。", verdict.Score, greetScoreGate)))
		return nil
	}

	greeter, err := a.newGreeter(ctx)
	if err != nil {
		return errNotConfiguredHint(err)
	}

	set, err := greeter.GenerateAll(ctx, posting, record.Content, verdict)
	if err != nil {
		return errNotConfiguredHint(err)
	}

	fmt.Println(titleStyle.Render("打招呼语句"))
	for _, s := range greeting.Styles {
		if style != "all" && string(s) != style {
			continue
		}
		text, _ := set.ByStyle(s)
		fmt.Println(labelStyle.Render(styleLabel(s)))
		fmt.Println(valueStyle.Render(text))
		fmt.Println()
	}

	attachGreetingToHistory(cmd, a, posting.Company, posting.Title, set)

	return nil
}

func styleLabel(style greeting.Style) string {
	switch style {
	case greeting.StyleCasual:
		return "轻松风格:"
	case greeting.StyleFormal:
		return "正式风格:"
	default:
		return "创意风格:"
	}
}

// attachGreetingToHistory stores the casual greeting on the newest history
// record for this posting, if one exists.
func attachGreetingToHistory(cmd *cobra.Command, a *appContext, company, title string, set *greeting.Set) {
	ctx := cmd.Context()

	records, err := a.history().List(ctx)
	if err != nil {
		a.logger.Warn("listing history failed", zap.Error(err))
		return
	}

	for _, r := range records {
		if r.Company == company && r.Title == title {
			if err := a.history().AttachGreeting(ctx, r.ID, set.Casual); err != nil {
				a.logger.Warn("attaching greeting to history failed", zap.Error(err))
			}
			return
		}
	}
}
