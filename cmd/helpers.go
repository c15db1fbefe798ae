package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/winkovo0818/boss-copilot/internal/ai"
	"github.com/winkovo0818/boss-copilot/internal/ai/gemini"
	"github.com/winkovo0818/boss-copilot/internal/cache"
	"github.com/winkovo0818/boss-copilot/internal/greeting"
	"github.com/winkovo0818/boss-copilot/internal/history"
	"github.com/winkovo0818/boss-copilot/internal/logger"
	"github.com/winkovo0818/boss-copilot/internal/match"
	"github.com/winkovo0818/boss-copilot/internal/resume"
	"github.com/winkovo0818/boss-copilot/internal/retry"
	"github.com/winkovo0818/boss-copilot/internal/secrets"
	"github.com/winkovo0818/boss-copilot/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultStorePath = "boss-copilot.db"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	goodScoreStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	okScoreStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	lowScoreStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// appContext bundles everything a subcommand needs: config, logger, the
// key-value store and the cache on top of it.
type appContext struct {
	cfg    *Config
	logger *zap.Logger
	store  store.Store
	cache  *cache.Cache
}

func newApp(ctx context.Context) (*appContext, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	cfg, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening the store: %w", err)
	}

	a := &appContext{
		cfg:    cfg,
		logger: log,
		store:  st,
		cache:  cache.New(st, cacheTTL(cfg), log),
	}

	// Expired entries are swept once per invocation so the store does not
	// accumulate stale verdicts.
	if _, err := a.cache.PurgeExpired(ctx); err != nil {
		log.Warn("startup cache sweep failed", zap.Error(err))
	}

	return a, nil
}

func (a *appContext) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing the store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *appContext) resumes() *resume.Manager {
	return resume.NewManager(a.store, a.logger)
}

func (a *appContext) history() *history.Manager {
	return history.NewManager(a.store, a.logger)
}

// newGateway builds the AI gateway from the stored provider configuration.
// It returns (nil, nil) when no configuration exists; callers decide how to
// degrade.
func (a *appContext) newGateway(ctx context.Context) (*ai.Gateway, error) {
	aiCfg, err := ai.LoadConfig(ctx, a.store)
	if err != nil {
		return nil, fmt.Errorf("loading ai config: %w", err)
	}
	if aiCfg == nil {
		return nil, nil
	}

	keyFile := ""
	if a.cfg.AI != nil {
		keyFile = a.cfg.AI.APIKeyFile
	}
	key, err := secrets.Load(secrets.Source{
		Name:  "ai api key",
		Value: aiCfg.APIKey,
		Env:   "BOSS_COPILOT_API_KEY",
		File:  keyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrNotConfigured, err)
	}
	aiCfg.APIKey = key

	providerName := strings.ToLower(strings.TrimSpace(aiCfg.Provider))
	var provider ai.Provider
	switch providerName {
	case "gemini":
		provider, err = gemini.NewGenerator(ctx, aiCfg.APIKey, aiCfg.Model)
	case "", "openai":
		providerName = "openai"
		provider, err = ai.NewOpenAICompatible(aiCfg)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", aiCfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	glog := logger.WithCommonFields(a.logger, providerName, aiCfg.Model)

	return ai.NewGateway(provider, retryPolicy(a.cfg), aiTimeout(a.cfg), maxLogLength(a.cfg), glog), nil
}

func (a *appContext) newEngine(ctx context.Context) (*match.Engine, error) {
	gateway, err := a.newGateway(ctx)
	if err != nil {
		return nil, err
	}

	if gateway == nil {
		return match.NewEngine(nil, a.cache, a.logger), nil
	}

	return match.NewEngine(gateway, a.cache, a.logger), nil
}

func (a *appContext) newGreeter(ctx context.Context) (*greeting.Generator, error) {
	gateway, err := a.newGateway(ctx)
	if err != nil {
		return nil, err
	}

	if gateway == nil {
		return greeting.NewGenerator(nil, a.logger), nil
	}

	return greeting.NewGenerator(gateway, a.logger), nil
}

func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	backend, path, redisURL := "sqlite", defaultStorePath, ""
	if cfg.Storage != nil {
		if cfg.Storage.Backend != "" {
			backend = cfg.Storage.Backend
		}
		if cfg.Storage.Path != "" {
			path = cfg.Storage.Path
		}
		redisURL = cfg.Storage.RedisURL
	}

	switch backend {
	case "sqlite":
		return store.NewSQLite(path)
	case "redis":
		return store.NewRedis(ctx, redisURL)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func cacheTTL(cfg *Config) time.Duration {
	if cfg.AI == nil || cfg.AI.CacheTTL == "" {
		return cache.DefaultTTL
	}

	ttl, err := time.ParseDuration(cfg.AI.CacheTTL)
	if err != nil || ttl <= 0 {
		return cache.DefaultTTL
	}

	return ttl
}

func aiTimeout(cfg *Config) time.Duration {
	if cfg.AI == nil || cfg.AI.Timeout == "" {
		return 0
	}

	timeout, err := time.ParseDuration(cfg.AI.Timeout)
	if err != nil || timeout <= 0 {
		return 0
	}

	return timeout
}

func retryPolicy(cfg *Config) retry.Policy {
	policy := retry.DefaultPolicy()
	if cfg.AI != nil && cfg.AI.MaxRetries > 0 {
		policy.Attempts = cfg.AI.MaxRetries
	}

	return policy
}

func maxLogLength(cfg *Config) int {
	if cfg.AI == nil {
		return 0
	}

	return cfg.AI.MaxLogLength
}

func confirm(label string) (bool, error) {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return false, err
	}

	return action == PromptYes, nil
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return goodScoreStyle
	case score >= 50:
		return okScoreStyle
	default:
		return lowScoreStyle
	}
}

func tierLabel(tier match.Tier) string {
	switch tier {
	case match.TierHighlyRecommend:
		return "强烈推荐投递"
	case match.TierRecommend:
		return "推荐投递"
	case match.TierConsider:
		return "可以考虑"
	default:
		return "不建议投递"
	}
}

func renderVerdict(v *match.Verdict) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("匹配分析结果"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("匹配度: "))
	b.WriteString(scoreStyle(v.Score).Render(fmt.Sprintf("%d / 100", v.Score)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("投递建议: "))
	b.WriteString(valueStyle.Render(tierLabel(v.Tier)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("总体评价: "))
	b.WriteString(valueStyle.Render(v.Summary))
	b.WriteString("\n")

	if len(v.Strengths) > 0 {
		b.WriteString(labelStyle.Render("优势:"))
		b.WriteString("\n")
		for _, s := range v.Strengths {
			b.WriteString(valueStyle.Render("  • " + s))
			b.WriteString("\n")
		}
	}

	if len(v.Gaps) > 0 {
		b.WriteString(labelStyle.Render("可提升点:"))
		b.WriteString("\n")
		for _, g := range v.Gaps {
			b.WriteString(valueStyle.Render("  • " + g))
			b.WriteString("\n")
		}
	}

	if v.Source == match.SourceLocal {
		b.WriteString(warnStyle.Render("提示: AI服务不可用，本结果由本地规则估算，仅供参考。"))
		b.WriteString("\n")
	}

	return b.String()
}

// errNotConfiguredHint converts a configuration error into user guidance.
func errNotConfiguredHint(err error) error {
	if errors.Is(err, ai.ErrNotConfigured) {
		return fmt.Errorf("%w (run '%s config set --api-key ... --base-url ...')", err, app)
	}

	return err
}
