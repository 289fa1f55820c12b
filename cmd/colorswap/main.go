package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jsvensson/colorswap"
	"github.com/jsvensson/colorswap/internal/export"
	"github.com/jsvensson/colorswap/internal/format"
	"github.com/jsvensson/colorswap/internal/swatch"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagFile        string
	flagVerbose     int
	flagSkipHistory bool
	flagNoSave      bool
	flagJSON        bool
	flagClear       bool
	flagOut         string
	flagTemplates   string
	flagOnly        []string
	flagCheck       bool
	version         = "dev" // Injected at build time via ldflags
)

var log = commonlog.GetLogger("colorswap.cli")

var rootCmd = &cobra.Command{
	Use:     "colorswap",
	Short:   "Convert colors between RGB, CMYK, HSL, HSV and HEX",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(flagVerbose, nil)
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <model> <values...>",
	Short: "Make a color current and print it in every model",
	Long: `Convert a color and make it the current swatch color.

The model is one of hex, rgb, cmyk, hsl, hsv or name. Numeric values may be
separate arguments or one comma-separated argument. Out-of-range numbers are
clamped; a malformed hex value is rejected.

  colorswap convert hex "#3B1E54"
  colorswap convert rgb 300 -20 84
  colorswap convert cmyk 0,100,33.3,0
  colorswap convert name dark slate gray`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConvert,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current color",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the current color to the default",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Pin the current color",
	Args:  cobra.NoArgs,
	RunE:  runPin,
}

var unpinCmd = &cobra.Command{
	Use:   "unpin <hex>",
	Short: "Remove a pinned color",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnpin,
}

var moveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move a pinned color to another position",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

var variationsCmd = &cobra.Command{
	Use:   "variations",
	Short: "Toggle pinned tints and shades of the current color",
	Args:  cobra.NoArgs,
	RunE:  runVariations,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently used colors",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var pinnedCmd = &cobra.Command{
	Use:   "pinned",
	Short: "List pinned colors",
	Args:  cobra.NoArgs,
	RunE:  runPinned,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current color as JSON and rendered templates",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format swatch files",
	Long:  "Format one or more swatch files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", defaultSwatchPath(), "path to swatch file")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (can be repeated)")

	// negative numbers after the model must not be read as flags
	convertCmd.Flags().SetInterspersed(false)
	convertCmd.Flags().BoolVar(&flagSkipHistory, "skip-history", false, "do not add the color to history")
	convertCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "convert without updating the swatch file")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "print the record as JSON")
	showCmd.Flags().BoolVar(&flagJSON, "json", false, "print the record as JSON")
	historyCmd.Flags().BoolVar(&flagJSON, "json", false, "print entries as JSON")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "forget every remembered color")
	pinnedCmd.Flags().BoolVar(&flagJSON, "json", false, "print entries as JSON")
	exportCmd.Flags().StringVar(&flagOut, "out", "output", "output directory")
	exportCmd.Flags().StringVar(&flagTemplates, "templates", "", "templates directory")
	exportCmd.Flags().StringArrayVar(&flagOnly, "only", nil, "render only specific templates (can be repeated)")
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")

	rootCmd.AddCommand(convertCmd, showCmd, resetCmd, pinCmd, unpinCmd, moveCmd, variationsCmd)
	rootCmd.AddCommand(historyCmd, pinnedCmd, exportCmd, fmtCmd, versionCmd)
}

// defaultSwatchPath is $COLORSWAP_FILE, or swatch.hcl in the user config dir.
func defaultSwatchPath() string {
	if p := os.Getenv("COLORSWAP_FILE"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "swatch.hcl"
	}
	return filepath.Join(dir, "colorswap", "swatch.hcl")
}

func openSession() (*swatch.Session, error) {
	s, err := colorswap.Open(flagFile, swatch.WithLogger(commonlog.GetLogger("colorswap.swatch")))
	if err != nil {
		return nil, err
	}
	log.Debugf("opened %s", flagFile)
	return s, nil
}

func saveSession(s *swatch.Session) error {
	if err := colorswap.Save(flagFile, s); err != nil {
		return err
	}
	log.Debugf("saved %s", flagFile)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	model, value, err := colorswap.ParseInput(args[0], args[1:])
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	var opts []swatch.UpdateOption
	if flagSkipHistory {
		opts = append(opts, swatch.SkipHistory())
	}
	rec, err := s.Update(model, value, opts...)
	if err != nil {
		return fmt.Errorf("converting: %w", err)
	}

	if !flagNoSave {
		if err := saveSession(s); err != nil {
			return err
		}
	}

	if flagJSON {
		return export.WriteJSON(cmd.OutOrStdout(), rec)
	}
	printRecord(cmd.OutOrStdout(), rec)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	if flagJSON {
		return export.WriteJSON(cmd.OutOrStdout(), s.Current())
	}
	printRecord(cmd.OutOrStdout(), s.Current())
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	s.Reset()
	if err := saveSession(s); err != nil {
		return err
	}
	printRecord(cmd.OutOrStdout(), s.Current())
	return nil
}

func runPin(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	hex := s.Current().Hex
	if !s.Pin() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is already pinned\n", hex)
		return nil
	}
	if err := saveSession(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s\n", hex)
	return nil
}

func runUnpin(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	if !s.Unpin(args[0]) {
		return fmt.Errorf("%s is not pinned", args[0])
	}
	if err := saveSession(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Unpinned %s\n", args[0])
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid source index %q: %w", args[0], err)
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid target index %q: %w", args[1], err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	if err := s.Move(from, to); err != nil {
		return err
	}
	if err := saveSession(s); err != nil {
		return err
	}
	printEntries(cmd.OutOrStdout(), s.Pinned())
	return nil
}

func runVariations(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	wasOpen := s.VariationsOpen()
	added := s.ToggleVariations()
	if err := saveSession(s); err != nil {
		return err
	}
	switch {
	case added:
		fmt.Fprintf(cmd.OutOrStdout(), "Pinned variations of %s\n", s.Current().Hex)
	case wasOpen:
		fmt.Fprintln(cmd.OutOrStdout(), "Removed variations")
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Variations of %s are already pinned\n", s.Current().Hex)
	}
	printEntries(cmd.OutOrStdout(), s.Pinned())
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	if flagClear {
		s.ClearHistory()
		if err := saveSession(s); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
		return nil
	}
	if flagJSON {
		return writeEntriesJSON(cmd.OutOrStdout(), s.History())
	}
	printEntries(cmd.OutOrStdout(), s.History())
	return nil
}

func runPinned(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	if flagJSON {
		return writeEntriesJSON(cmd.OutOrStdout(), s.Pinned())
	}
	printEntries(cmd.OutOrStdout(), s.Pinned())
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	e := &export.Exporter{
		OutputDir:    flagOut,
		TemplatesDir: flagTemplates,
		Only:         flagOnly,
	}

	files, err := e.Run(s.Current())
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		content := string(data)
		formatted, err := format.Format(content)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		if formatted == content {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true

		if !flagCheck {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		}
	}

	if hasErrors || (flagCheck && needsFormatting) {
		os.Exit(1)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
