package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/history"
	"github.com/winkovo0818/boss-copilot/internal/job"
	"github.com/winkovo0818/boss-copilot/internal/resume"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a job posting against your resume",
	Long: "Analyzes how well your default (or selected) resume matches a job posting " +
		"and prints a scored verdict. The posting comes from --job-file or the last analyzed one.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("job-file", "f", "", "JSON file with the job posting (title, company, description, skills)")
	analyzeCmd.Flags().StringP("resume", "r", "", "resume id to use instead of the default one")
	analyzeCmd.Flags().Bool("no-history", false, "do not record this analysis in the history")
}

// fileExtractor reads a posting from a JSON file. It stands in for the
// browser-side DOM extractor behind the same interface.
type fileExtractor struct {
	path string
}

func (f fileExtractor) ExtractJobDetails(_ context.Context) (*job.Posting, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}

	var posting job.Posting
	if err := json.Unmarshal(data, &posting); err != nil {
		return nil, fmt.Errorf("decoding job file %q: %w", f.path, err)
	}

	if strings.TrimSpace(posting.Title) == "" && strings.TrimSpace(posting.Description) == "" {
		return nil, fmt.Errorf("job file %q carries neither a title nor a description", f.path)
	}

	if posting.ExtractedAt.IsZero() {
		posting.ExtractedAt = time.Now()
	}

	return &posting, nil
}

var _ job.Extractor = fileExtractor{}

func runAnalyze(cmd *cobra.Command) error {
	ctx := cmd.Context()

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

	verdict, err := engine.Analyze(ctx, posting, record.Content)
	if err != nil {
		return err
	}

	fmt.Println(renderVerdict(verdict))

	if cmd.Flag("no-history").Value.String() == "true" {
		return nil
	}

	saved, err := a.history().Append(ctx, history.Record{
		Company:   posting.Company,
		Title:     posting.Title,
		Score:     verdict.Score,
		Strengths: verdict.Strengths,
		Gaps:      verdict.Gaps,
	})
	if err != nil {
		a.logger.Warn("recording analysis history failed", zap.Error(err))
		return nil
	}

	a.logger.Debug("analysis recorded", zap.String("history_id", saved.ID))

	return nil
}

// loadPosting resolves the posting: an explicit file wins and is remembered
// as the current job; otherwise the last analyzed posting is reused.
func loadPosting(ctx context.Context, a *appContext, jobFile string) (*job.Posting, error) {
	if jobFile != "" {
		posting, err := fileExtractor{path: jobFile}.ExtractJobDetails(ctx)
		if err != nil {
			return nil, err
		}

		if err := job.SaveCurrent(ctx, a.store, posting); err != nil {
			a.logger.Warn("saving current job failed", zap.Error(err))
		}

		return posting, nil
	}

	posting, err := job.LoadCurrent(ctx, a.store)
	if err != nil {
		return nil, err
	}
	if posting == nil {
		return nil, errors.New("no job posting available, pass one with --job-file")
	}

	return posting, nil
}

func selectResume(ctx context.Context, manager *resume.Manager, id string) (*resume.Record, error) {
	if id == "" {
		record, err := manager.Default(ctx)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, fmt.Errorf("no resume stored, add one with '%s resume add'", app)
		}

		return record, nil
	}

	records, err := manager.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", resume.ErrNotFound, id)
}
