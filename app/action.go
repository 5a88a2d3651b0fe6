package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/thoughtcast/thoughtcast/internal/config"
	"github.com/thoughtcast/thoughtcast/internal/osutil"
	"github.com/thoughtcast/thoughtcast/internal/pathutil"
	"github.com/thoughtcast/thoughtcast/internal/timeutil"
	"github.com/thoughtcast/thoughtcast/internal/ui"
	"github.com/thoughtcast/thoughtcast/recorder"
	"github.com/thoughtcast/thoughtcast/recording"
	"github.com/thoughtcast/thoughtcast/stats"
	"github.com/thoughtcast/thoughtcast/store"
)

const (
	envNoColor            = "NO_COLOR"
	envThoughtcastNoColor = "THOUGHTCAST_NO_COLOR"
)

var (
	errNoSessions = errors.New("no sessions recorded yet")

	errInvalidSeconds = errors.New(
		"audio length must be a number of seconds or a duration such as 1m30s",
	)
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

func getPaths(ctx *cli.Context) (*pathutil.Paths, error) {
	return pathutil.New(ctx.String("dir"))
}

// openRecorder returns a recorder for commands that work with existing
// sessions.
func openRecorder(
	ctx *cli.Context,
	opts ...recorder.Option,
) (*recorder.Recorder, *pathutil.Paths, error) {
	paths, err := getPaths(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]recorder.Option{recorder.WithLogger(slog.Default())}, opts...)

	return recorder.New(paths, nil, opts...), paths, nil
}

// sessionID returns the session named on the command line, or the most
// recent session when none is given.
func sessionID(ctx *cli.Context, rec *recorder.Recorder) (string, error) {
	if id := strings.TrimSpace(ctx.Args().First()); id != "" {
		return id, nil
	}

	sessions, err := rec.Sessions()
	if err != nil {
		return "", err
	}

	if len(sessions) == 0 {
		return "", errNoSessions
	}

	return sessions[0].ID, nil
}

// interruptible returns a context that is cancelled on Ctrl-C.
func interruptible(ctx *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
}

// captureConfig reads the capture settings. A missing config.json does not
// prevent recording since the audio is kept even if it cannot be
// transcribed.
func captureConfig(
	ctx *cli.Context,
	paths *pathutil.Paths,
) (*config.Config, error) {
	cfg, err := config.New(
		config.WithViperConfig(paths.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
	if errors.Is(err, config.ErrConfigMissing) {
		slog.Warn("recording without configuration", slog.Any("error", err))
		pterm.Warning.Println(
			"No config.json found: the recording will be saved but not transcribed. Run 'thoughtcast init' first.",
		)

		cfg, err = config.New(config.WithCLIConfig(ctx))
	}

	if err != nil {
		return nil, err
	}

	return cfg, cfg.Capture.Validate()
}

func deviceOpener(cc config.CaptureConfig) recording.DeviceOpener {
	format := recording.Format(cc.Format)

	if cc.Backend == config.BackendCommand {
		return recording.CommandOpener(cc.Command, format)
	}

	return recording.PortAudioOpener(format)
}

// recordAction handles the record command which opens the recording screen
// and transcribes the memo once it is stopped.
func recordAction(ctx *cli.Context) error {
	paths, err := getPaths(ctx)
	if err != nil {
		return err
	}

	if err = paths.EnsureStorage(); err != nil {
		return err
	}

	lock, err := store.AcquireLock(paths.DBFilePath())
	if err != nil {
		return err
	}

	defer func() {
		if rerr := lock.Release(); rerr != nil {
			slog.Warn("releasing lock failed", slog.Any("error", rerr))
		}
	}()

	cfg, err := captureConfig(ctx, paths)
	if err != nil {
		return err
	}

	opts := []recorder.Option{recorder.WithLogger(slog.Default())}

	if ctx.Bool("no-clipboard") {
		opts = append(opts, recorder.WithClipboard(recorder.NoClipboard{}))
	}

	rec := recorder.New(paths, deviceOpener(cfg.Capture), opts...)

	defer func() {
		if cerr := rec.Close(); cerr != nil {
			slog.Warn("closing recorder failed", slog.Any("error", cerr))
		}
	}()

	if err = rec.Start(); err != nil {
		return err
	}

	m := recorder.NewModel(rec, recorder.ModelOptions{
		StatusFile: paths.StatusFilePath(),
		Notify:     ctx.Bool("notify"),
	})

	if _, err = tea.NewProgram(m).Run(); err != nil {
		return err
	}

	return reportOutcome(rec, m)
}

func reportOutcome(rec *recorder.Recorder, m *recorder.Model) error {
	if m.Err() != nil {
		return m.Err()
	}

	if m.Discarded() {
		pterm.Info.Println("Recording discarded")
		return nil
	}

	sess := m.Session()
	if sess == nil {
		return nil
	}

	res := m.Result()
	if res == nil {
		pterm.Warning.Printfln(
			"Transcription of %s was interrupted. Run 'thoughtcast retranscribe %s' to try again",
			sess.ID,
			sess.ID,
		)

		return nil
	}

	if res.Kind == recorder.EventError {
		pterm.Info.Printfln(
			"Audio saved as %s. Run 'thoughtcast retranscribe %s' once the problem is fixed",
			sess.AudioPath,
			sess.ID,
		)

		return errors.New(res.Message)
	}

	pterm.Success.Printfln(
		"Saved %s (%s)",
		res.Session.ID,
		timeutil.FormatSeconds(res.Session.Duration),
	)

	text, err := rec.Transcript(res.SessionID)
	if err != nil {
		return err
	}

	if text == "" {
		pterm.Info.Println("No speech detected")
		return nil
	}

	pterm.Println(text)

	if res.Session.ClipboardCopied {
		pterm.Info.Println("Copied to clipboard")
	}

	return nil
}

// listAction handles the list command and prints a table of the sessions
// recorded within a time period.
func listAction(ctx *cli.Context) error {
	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	rec, _, err := openRecorder(ctx)
	if err != nil {
		return err
	}

	sessions, err := rec.Sessions()
	if err != nil {
		return err
	}

	sessions = filterSessions(sessions, filter)

	if ctx.Bool("json") {
		b, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	printSessionsTable(os.Stdout, sessions)

	return nil
}

// transcriptAction prints the saved transcript of a session.
func transcriptAction(ctx *cli.Context) error {
	rec, _, err := openRecorder(ctx)
	if err != nil {
		return err
	}

	id, err := sessionID(ctx, rec)
	if err != nil {
		return err
	}

	text, err := rec.Transcript(id)
	if err != nil {
		return err
	}

	pterm.Println(text)

	return nil
}

// copyAction copies the transcript of a session to the clipboard.
func copyAction(ctx *cli.Context) error {
	rec, _, err := openRecorder(ctx)
	if err != nil {
		return err
	}

	id, err := sessionID(ctx, rec)
	if err != nil {
		return err
	}

	if err = rec.CopyToClipboard(id); err != nil {
		return err
	}

	pterm.Success.Printfln("Copied the transcript of %s to the clipboard", id)

	return nil
}

// retranscribeAction runs transcription again for an existing session.
func retranscribeAction(ctx *cli.Context) error {
	rec, _, err := openRecorder(ctx)
	if err != nil {
		return err
	}

	defer rec.Close()

	id, err := sessionID(ctx, rec)
	if err != nil {
		return err
	}

	sess, err := rec.Ledger().Find(id)
	if err != nil {
		return err
	}

	msg := "Transcribing " + id
	if est, ok, eerr := rec.Estimate(sess.Duration); eerr == nil && ok {
		msg += fmt.Sprintf(" (about %s)", timeutil.FormatSeconds(est.EstimatedSeconds))
	}

	spinner, _ := pterm.DefaultSpinner.Start(msg)

	c, cancel := interruptible(ctx)
	defer cancel()

	text, err := rec.Retranscribe(c, id)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}

	spinner.Success("Transcribed " + id)

	pterm.Println(text)

	return nil
}

func parseSeconds(s string) (float64, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 {
		return v, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errInvalidSeconds
	}

	return timeutil.ToSeconds(d), nil
}

// estimateAction predicts the transcription time of a recording length.
func estimateAction(ctx *cli.Context) error {
	audio, err := parseSeconds(strings.TrimSpace(ctx.Args().First()))
	if err != nil {
		return err
	}

	rec, _, err := openRecorder(ctx)
	if err != nil {
		return err
	}

	est, ok, err := rec.Estimate(audio)
	if err != nil {
		return err
	}

	if !ok {
		pterm.Info.Println(
			"Not enough history yet: estimates need at least 10 transcribed sessions",
		)

		return nil
	}

	pterm.Info.Printfln(
		"About %s for %s of audio (%s confidence, %d samples)",
		timeutil.FormatSeconds(est.EstimatedSeconds),
		timeutil.FormatSeconds(audio),
		est.Confidence,
		est.Samples,
	)

	return nil
}

// statsAction reports transcription speed per model for the specified
// time period.
func statsAction(ctx *cli.Context) error {
	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	rec, _, err := openRecorder(ctx)
	if err != nil {
		return err
	}

	sessions, err := rec.Sessions()
	if err != nil {
		return err
	}

	all := stats.Extract(sessions)
	measured := make([]stats.Stat, 0, len(all))

	for _, s := range all {
		if filter.Contains(s.Timestamp) {
			measured = append(measured, s)
		}
	}

	return stats.Show(os.Stdout, measured)
}

// statusAction handles the status command and prints the status of a
// recording running in another terminal. Nothing is printed when no
// recording is in progress.
func statusAction(ctx *cli.Context) error {
	paths, err := getPaths(ctx)
	if err != nil {
		return err
	}

	running, err := store.IsRecording(paths.DBFilePath())
	if err != nil || !running {
		return err
	}

	s, err := store.ReadStatus(paths.StatusFilePath())
	if err != nil || s == nil {
		return err
	}

	duration := s.Duration
	if s.State == recording.StatusRecording.String() {
		duration += time.Since(s.UpdatedAt).Seconds()
	}

	text := "[" + capitalize(s.State) + "]"

	if s.SessionID != "" && s.Estimate > 0 {
		pterm.Printfln(
			"%s %s: ~%s",
			text,
			s.SessionID,
			timeutil.FormatSeconds(s.Estimate),
		)

		return nil
	}

	pterm.Printfln("%s: %s", text, timeutil.FormatSeconds(duration))

	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// playAction plays the recording of a session.
func playAction(ctx *cli.Context) error {
	rec, _, err := openRecorder(ctx)
	if err != nil {
		return err
	}

	id, err := sessionID(ctx, rec)
	if err != nil {
		return err
	}

	sess, err := rec.Ledger().Find(id)
	if err != nil {
		return err
	}

	length, err := rec.AudioLength(sess)
	if err != nil {
		return err
	}

	pterm.Info.Printfln(
		"Playing %s (%s)",
		id,
		timeutil.FormatSeconds(timeutil.ToSeconds(length)),
	)

	c, cancel := interruptible(ctx)
	defer cancel()

	return rec.Play(c, id)
}

// exportAction writes a session transcript as a Markdown note.
func exportAction(ctx *cli.Context) error {
	paths, err := getPaths(ctx)
	if err != nil {
		return err
	}

	rec, _, err := openRecorder(
		ctx,
		recorder.WithConfigLoader(func() (*config.Config, error) {
			return config.New(
				config.WithViperConfig(paths.ConfigFilePath()),
				config.WithCLIConfig(ctx),
			)
		}),
	)
	if err != nil {
		return err
	}

	id, err := sessionID(ctx, rec)
	if err != nil {
		return err
	}

	out, err := rec.Export(id)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Exported %s to %s", id, out)

	return nil
}

// initAction creates config.json through interactive prompts.
func initAction(ctx *cli.Context) error {
	paths, err := getPaths(ctx)
	if err != nil {
		return err
	}

	path := paths.ConfigFilePath()

	if _, err = os.Stat(path); err == nil {
		pterm.Info.Printfln(
			"%s already exists. Use 'thoughtcast edit-config' to change it",
			path,
		)

		return nil
	}

	if err = paths.EnsureStorage(); err != nil {
		return err
	}

	if _, err = config.New(config.WithPromptConfig(path)); err != nil {
		return err
	}

	pterm.Success.Printfln("Configuration saved to %s", path)

	return nil
}

// configAction prints the effective configuration.
func configAction(ctx *cli.Context) error {
	paths, err := getPaths(ctx)
	if err != nil {
		return err
	}

	cfg, err := config.New(config.WithViperConfig(paths.ConfigFilePath()))
	if err != nil {
		return err
	}

	ui.PrintTable(cfg.Table(), os.Stdout)

	if verr := cfg.Validate(); verr != nil {
		pterm.Warning.Println(verr.Error())
	}

	return nil
}

// editConfigAction handles the edit-config command which opens config.json
// in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	paths, err := getPaths(ctx)
	if err != nil {
		return err
	}

	cmd := exec.Command(editor, paths.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if THOUGHTCAST_NO_COLOR is set
	if _, exists := os.LookupEnv(envThoughtcastNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	ui.LightTheme = ctx.Bool("light-theme")

	paths, err := getPaths(ctx)
	if err != nil {
		return err
	}

	if err = paths.EnsureDataDir(); err != nil {
		return err
	}

	setupLogger(paths, ctx.Bool("debug"))

	slog.Debug("starting thoughtcast", slog.String("root", paths.Root))

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting thoughtcast")

	return nil
}
