package cli

import (
	"context"
	"fmt"

	"github.com/ralt/archpkg/internal/config"
	"github.com/ralt/archpkg/internal/fetcher"
	"github.com/ralt/archpkg/internal/format"
	"github.com/ralt/archpkg/internal/models"
	"github.com/ralt/archpkg/internal/pipeline"
	"github.com/ralt/archpkg/internal/resolver/aur"
	"github.com/ralt/archpkg/internal/resolver/official"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewPkgCmd creates the pkg command
func NewPkgCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "pkg <name> [repo]",
		Short: "Look up a package",
		Long: `Searches the official repositories for the named package, optionally
restricted to one repository (core, extra, multilib, ...). Falls back to the
AUR when the official search has no match.`,
		Example: "  archpkg pkg linux\n  archpkg pkg linux core\n  archpkg pkg yay",
		Args:    cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			logrus.Debugf("Configuration: %+v", *cfg)

			f := format.New(cfg.Lang, cfg.AURWebURL, cfg.Color)
			out := cmd.OutOrStdout()

			var name, repo string
			if len(args) > 0 {
				name = args[0]
			}
			if len(args) > 1 {
				repo = args[1]
			}

			q, err := models.NewQuery(name, repo)
			if err != nil {
				fmt.Fprintln(out, f.Usage())
				return err
			}

			result := Lookup(cmd.Context(), cfg, q, logrus.StandardLogger())
			fmt.Fprintln(out, f.Render(q, result))

			if result.Kind == models.ResultFailed {
				return result.Err
			}
			return nil
		},
	}

	// Endpoint flags
	cmd.Flags().String("official-url", defaults.OfficialURL, "Official repository search endpoint")
	cmd.Flags().String("aur-url", defaults.AURURL, "AUR RPC base endpoint")
	cmd.Flags().String("aur-web-url", defaults.AURWebURL, "AUR web base used for package links")

	// HTTP flags
	cmd.Flags().Duration("timeout", defaults.Timeout, "Timeout for each request")
	cmd.Flags().String("user-agent", defaults.UserAgent, "User-Agent header")
	cmd.Flags().Int("max-concurrent", defaults.MaxConcurrent, "Maximum parallel AUR info requests (0 = unlimited)")

	// Output flags
	cmd.Flags().String("lang", defaults.Lang, "Message language (en, zh)")
	cmd.Flags().Bool("color", defaults.Color, "Style labels in terminal output")

	return cmd
}

// Lookup resolves one query with a pipeline built from cfg
func Lookup(ctx context.Context, cfg *models.Config, q models.Query, log logrus.FieldLogger) models.Result {
	if ctx == nil {
		ctx = context.Background()
	}

	client := fetcher.New(
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithLogger(log),
	)

	p := pipeline.New(
		official.New(client, cfg.OfficialURL, log),
		aur.New(client, cfg.AURURL, log, aur.WithMaxConcurrent(cfg.MaxConcurrent)),
		log,
	)
	return p.Run(ctx, q)
}
