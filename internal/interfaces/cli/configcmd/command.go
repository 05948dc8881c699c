package configcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/deskhub/internal/infrastructure/config"
	"github.com/orris-inc/deskhub/internal/shared/utils"
)

var (
	env        string
	configPath string
	showSecret bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration as YAML",
		Long:  `Print the configuration after defaults, the config file and DESKHUB_* environment variables are merged. Secrets are masked unless --show-secrets is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env, configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return Print(cmd.OutOrStdout(), cfg, showSecret)
		},
	}
	printCmd.Flags().BoolVar(&showSecret, "show-secrets", false, "Print secrets in clear text")

	cmd.AddCommand(printCmd)
	return cmd
}

// Print writes cfg as YAML. The passed config is not modified.
func Print(out io.Writer, cfg *config.Config, showSecrets bool) error {
	c := *cfg
	if !showSecrets {
		c.Database.Password = utils.MaskSecret(c.Database.Password)
		c.Auth.JWT.Secret = utils.MaskSecret(c.Auth.JWT.Secret)
		c.OAuth.Google.ClientSecret = utils.MaskSecret(c.OAuth.Google.ClientSecret)
		c.Email.SMTPPassword = utils.MaskSecret(c.Email.SMTPPassword)
		c.Redis.Password = utils.MaskSecret(c.Redis.Password)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
