package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kiyor/vidembed/pkg/api"
	"github.com/kiyor/vidembed/pkg/core"
)

const APP = "vidembed"

var cfg = core.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   APP,
	Short: "Serve movie and TV episode player pages for third-party embed providers.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.New(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("%s starting on %s, movie %s, tv %s\n", APP, cfg.Addr(), cfg.MovieEmbed, cfg.TVEmbed)
		return srv.Start(context.Background())
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve PATH...",
	Short: "Print the embed a request path resolves to.",
	Example: `  vidembed resolve /movie/550
  vidembed resolve /tv/1399/1/1 /unknown`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		routes, err := cfg.Routes()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		var failed bool
		for _, p := range args {
			e, err := routes.Resolve(p)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", p, err)
				failed = true
				continue
			}
			if err := enc.Encode(map[string]interface{}{
				"path":     p,
				"route":    e.Route,
				"title":    e.Title,
				"subtitle": e.Subtitle,
				"embedUrl": e.EmbedURL,
			}); err != nil {
				return err
			}
		}
		if failed {
			return fmt.Errorf("some paths did not resolve")
		}
		return nil
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the route table in match order.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		routes, err := cfg.Routes()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATTERN\tPROVIDER")
		for _, s := range routes.Specs() {
			provider := s.Provider
			if provider == "" {
				provider = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Pattern, provider)
		}
		return w.Flush()
	},
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	f := rootCmd.PersistentFlags()
	f.StringVarP(&cfg.Interface, "interface", "i", cfg.Interface, "http service interface address")
	f.StringVarP(&cfg.Listen, "listen", "l", cfg.Listen, "http service listen port (env PORT)")
	f.StringVar(&cfg.MovieEmbed, "movie-embed", cfg.MovieEmbed, "movie provider template with {id} (env MOVIE_EMBED)")
	f.StringVar(&cfg.TVEmbed, "tv-embed", cfg.TVEmbed, "tv provider template with {id} {season} {episode} (env TV_EMBED)")
	f.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "static file dir served under / (env STATIC_DIR)")
	f.StringVar(&cfg.RedisHost, "redis-host", cfg.RedisHost, "optional shared page cache, e.g. localhost:6379 (env REDIS_HOST)")
	f.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "rendered pages kept in memory")
	f.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "rendered page ttl")
	f.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "indent rendered html")
	f.BoolVar(&cfg.Pprof, "pprof", cfg.Pprof, "serve /debug/pprof")

	rootCmd.AddCommand(resolveCmd, routesCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
