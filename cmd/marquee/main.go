package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pders01/marquee/internal/display"
	"github.com/pders01/marquee/internal/media"
	"github.com/pders01/marquee/internal/tmdb"
	"github.com/pders01/marquee/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	logLevel   string
	logFile    string
	quiet      bool
)

// newFetcher builds the TMDB client; tests swap it for a fake.
var newFetcher = func(cfg config.TMDBConfig) (tmdb.MovieFetcher, error) {
	client, err := tmdb.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Browse and search movies from TMDB in your terminal",
	Long: `marquee is a terminal movie browser backed by The Movie Database.
Run it without arguments for the interactive browser, or use a subcommand
for one-shot output.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var searchCmd = &cobra.Command{
	Use:   "search <text...>",
	Short: "Search movies by title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var listCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "Show trending movies and a category (popular, top-rated, upcoming, now-playing)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show this week's trending movies",
	Args:  cobra.NoArgs,
	RunE:  runTrending,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marquee %s\n", Version)
		fmt.Println("TMDB movie browser")
		fmt.Println("github.com/pders01/marquee")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configGenCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate a default config file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configFile := ""
		if len(args) > 0 {
			configFile = args[0]
		} else {
			home, _ := os.UserHomeDir()
			configFile = filepath.Join(home, ".config", "marquee", "config.toml")
		}

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file (overrides config)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(searchCmd, listCmd, trendingCmd, versionCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = debuglog.Close()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads and validates configuration and starts logging.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), debuglog.Options{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	tui.ApplyTheme(cfg.UI.Colors)
	return cfg, nil
}

func newController(cfg *config.Config, opts ...browse.Option) (*browse.Controller, error) {
	fetcher, err := newFetcher(cfg.TMDB)
	if err != nil {
		return nil, err
	}
	opts = append([]browse.Option{browse.WithTrendingLimit(cfg.UI.TrendingLimit)}, opts...)
	return browse.NewController(fetcher, opts...), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cfg.TMDB)
	if err != nil {
		return err
	}

	if !quiet {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(cmd.Context(), cfg, fetcher, media.NewLauncher(cfg))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	app.SetSender(p.Send)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	controller, err := newController(cfg)
	if err != nil {
		return err
	}

	raw := strings.Join(args, " ")
	controller.SetSearchTerm(raw)
	req, issued := controller.Settle(strings.Join(strings.Fields(raw), " "))
	if !issued || req.Kind != browse.KindSearch {
		return errors.New("search text is required")
	}

	res := controller.Fetch(cmd.Context(), req)
	controller.Apply(res)
	return printResults(cmd.OutOrStdout(), controller, res.Err)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	name := cfg.UI.DefaultCategory
	if len(args) > 0 {
		name = args[0]
	}
	category, err := tmdb.ParseCategory(name)
	if err != nil {
		return err
	}

	controller, err := newController(cfg, browse.WithCategory(category))
	if err != nil {
		return err
	}

	req := controller.Start()
	var (
		res      browse.Result
		trending browse.TrendingResult
		wg       conc.WaitGroup
	)
	wg.Go(func() { res = controller.Fetch(cmd.Context(), req) })
	wg.Go(func() { trending = controller.FetchTrending(cmd.Context()) })
	wg.Wait()

	controller.ApplyTrending(trending)
	controller.Apply(res)

	out := cmd.OutOrStdout()
	if v := controller.View(); v.ShowTrending {
		fmt.Fprintln(out, tui.HeaderStyle.Render("Trending This Week"))
		fmt.Fprintln(out, trendingTable(v.Trending))
		fmt.Fprintln(out)
	}
	return printResults(out, controller, res.Err)
}

func runTrending(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	controller, err := newController(cfg)
	if err != nil {
		return err
	}

	res := controller.FetchTrending(cmd.Context())
	if res.Err != nil {
		return fmt.Errorf("fetching trending movies: %w", res.Err)
	}
	controller.ApplyTrending(res)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.HeaderStyle.Render("Trending This Week"))
	fmt.Fprintln(out, trendingTable(controller.State().Trending))
	return nil
}

// printResults writes the controller's result area, mirroring the TUI's
// empty and error states.
func printResults(out io.Writer, controller *browse.Controller, fetchErr error) error {
	v := controller.View()
	fmt.Fprintln(out, tui.HeaderStyle.Render(v.Heading))

	switch v.Kind {
	case browse.RenderError:
		fmt.Fprintln(out, tui.ErrorMessageStyle.Render(v.Message))
		return fmt.Errorf("fetching movies: %w", fetchErr)
	case browse.RenderEmpty:
		fmt.Fprintln(out, v.Message)
		return nil
	default:
		fmt.Fprintln(out, moviesTable(v.Movies))
		return nil
	}
}

func moviesTable(movies []tmdb.Movie) *table.Table {
	t := newTable("ID", "Title", "Year", "Rating", "Lang", "Poster")
	for _, m := range movies {
		t.Row(
			fmt.Sprint(m.ID),
			m.Title,
			display.Year(m.ReleaseDate),
			"★ "+display.Rating(m.VoteAverage),
			display.Language(m.OriginalLanguage),
			display.PosterURL(m.PosterPath, display.SizeCard),
		)
	}
	return t
}

func trendingTable(movies []tmdb.Movie) *table.Table {
	t := newTable("Rank", "Title", "Rating", "Thumbnail")
	for i, m := range movies {
		t.Row(
			display.TrendingRank(i),
			m.Title,
			"★ "+display.Rating(m.VoteAverage),
			display.ThumbnailURL(m.PosterPath),
		)
	}
	return t
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Foreground(tui.PrimaryColor).Bold(true)
			}
			return style
		})
}
