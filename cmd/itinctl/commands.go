package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lotus/internal/itinerary"
	"lotus/pkg/utils"
)

type rootOptions struct {
	timeZone string
	today    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "itinctl",
		Short:         "Inspect and replay itinerary generation offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.timeZone, "timezone", "Asia/Shanghai", "time zone for dates and timestamps")
	cmd.PersistentFlags().StringVar(&opts.today, "today", "", "override today's date (YYYY-MM-DD) for fallback plans")

	cmd.AddCommand(
		newNormalizeCmd(opts),
		newFallbackCmd(opts),
		newTokenCmd(),
	)
	return cmd
}

func (o *rootOptions) pipeline() (itinerary.Pipeline, error) {
	loc, err := time.LoadLocation(o.timeZone)
	if err != nil {
		return itinerary.Pipeline{}, fmt.Errorf("invalid --timezone %q: %w", o.timeZone, err)
	}
	p := itinerary.Pipeline{Location: loc, Now: time.Now}
	if o.today != "" {
		day, err := time.ParseInLocation("2006-01-02", o.today, loc)
		if err != nil {
			return itinerary.Pipeline{}, fmt.Errorf("invalid --today %q: expected YYYY-MM-DD", o.today)
		}
		p.Now = func() time.Time { return day }
	}
	return p, nil
}

func newNormalizeCmd(opts *rootOptions) *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Run a raw model completion through repair and normalization",
		Long:  "Reads a raw completion from a file (or - for stdin) and prints the pipeline outcome as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			p, err := opts.pipeline()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p.Run(raw, prompt))
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "original user prompt, used when the fallback plan is needed")
	return cmd
}

func newFallbackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fallback <prompt>",
		Short: "Print the offline itinerary generated from a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.pipeline()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p.FromPrompt(args[0], "").Itinerary)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			id := uuid.New()
			if userID != "" {
				parsed, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid --user %q: %w", userID, err)
				}
				id = parsed
			}
			token, err := utils.NewTokenVerifier(secret).CreateToken(id, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to $JWT_SECRET)")
	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read completion: %w", err)
	}
	return string(b), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
