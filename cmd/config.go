package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/winkovo0818/boss-copilot/internal/ai"
	"github.com/winkovo0818/boss-copilot/internal/secrets"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the AI provider configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the AI provider configuration",
	Long: "Stores the provider credentials used for scoring and greetings. " +
		"Any OpenAI-compatible endpoint works (OpenAI, Kimi, Zhipu, Qwen, relays); pass --provider gemini for the Gemini API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg, err := ai.LoadConfig(ctx, a.store)
		if err != nil {
			return err
		}
		if cfg == nil {
			cfg = &ai.Config{}
		}

		if v := cmd.Flag("provider").Value.String(); v != "" {
			cfg.Provider = v
		}
		if v := cmd.Flag("base-url").Value.String(); v != "" {
			cfg.BaseURL = v
		}
		if v := cmd.Flag("model").Value.String(); v != "" {
			cfg.Model = v
		}

		key := cmd.Flag("api-key").Value.String()
		keyFile := cmd.Flag("api-key-file").Value.String()
		if key != "" || keyFile != "" {
			resolved, err := secrets.Load(secrets.Source{Name: "ai api key", Value: key, File: keyFile})
			if err != nil {
				return err
			}
			cfg.APIKey = resolved
		}

		if err := ai.SaveConfig(ctx, a.store, cfg); err != nil {
			return err
		}

		fmt.Println(labelStyle.Render("AI配置已保存"))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored AI configuration (key masked)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg, err := ai.LoadConfig(ctx, a.store)
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("AI配置"))
		if cfg == nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("尚未配置，先运行 '%s config set --api-key ... --base-url ...'。", app)))
			return nil
		}

		provider := cfg.Provider
		if provider == "" {
			provider = "openai"
		}

		fmt.Println(labelStyle.Render("provider: ") + valueStyle.Render(provider))
		fmt.Println(labelStyle.Render("base-url: ") + valueStyle.Render(cfg.BaseURL))
		fmt.Println(labelStyle.Render("model:    ") + valueStyle.Render(cfg.Model))
		fmt.Println(labelStyle.Render("api-key:  ") + valueStyle.Render(maskKey(cfg.APIKey)))

		return nil
	},
}

func maskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return "****"
	}

	return key[:4] + strings.Repeat("*", 8) + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)

	configSetCmd.Flags().String("provider", "", "provider kind: openai (default, any compatible endpoint) or gemini")
	configSetCmd.Flags().String("api-key", "", "API key (stored in the local key-value store)")
	configSetCmd.Flags().String("api-key-file", "", "file containing the API key (wins over --api-key)")
	configSetCmd.Flags().String("base-url", "", "API base URL, e.g. https://api.openai.com/v1")
	configSetCmd.Flags().String("model", "", "model name, e.g. gpt-4o-mini")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
