package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kiosoodl/internal/batch"
	"kiosoodl/internal/config"
	"kiosoodl/internal/engine"
	"kiosoodl/internal/history"
	"kiosoodl/internal/model"
	"kiosoodl/internal/store"
	"kiosoodl/internal/tui"
)

func newGetCmd(ctx *rootContext) *cobra.Command {
	var (
		destDir     string
		quality     string
		container   string
		maxJobs     int
		numbering   bool
		autoSubs    bool
		manualSubs  bool
		subLang     string
		thumbnail   bool
		metadata    bool
		sponsor     bool
		archivePath string
		cookiesPath string
		plain       bool
	)

	cmd := &cobra.Command{
		Use:   "get [url|links.txt]...",
		Short: "Download media items with bounded parallelism",
		Long: "Downloads the given URLs. Arguments ending in .txt are treated as\n" +
			"link-list files; each file forms its own batch with sequential numbering.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("dest") {
				settings.DestDir = destDir
			}
			if flags.Changed("quality") {
				settings.Quality = strings.ToLower(strings.TrimSpace(quality))
			}
			if flags.Changed("container") {
				settings.Container = container
			}
			if flags.Changed("jobs") {
				settings.MaxConcurrent = maxJobs
			}
			if flags.Changed("numbering") {
				settings.Numbering = numbering
			}
			if flags.Changed("auto-subs") {
				settings.AutoSubs = autoSubs
			}
			if flags.Changed("subs") {
				settings.ManualSubs = manualSubs
			}
			if flags.Changed("sub-lang") {
				settings.SubLang = subLang
			}
			if flags.Changed("thumbnail") {
				settings.Thumbnail = thumbnail
			}
			if flags.Changed("metadata") {
				settings.Metadata = metadata
			}
			if flags.Changed("sponsorblock") {
				settings.SponsorStrip = sponsor
			}
			if flags.Changed("archive") {
				settings.ArchivePath = archivePath
			}
			if flags.Changed("cookies") {
				settings.CookiesPath = cookiesPath
			}
			if strings.TrimSpace(settings.DestDir) == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				settings.DestDir = wd
			}

			batches, err := collectBatches(args)
			if err != nil {
				return err
			}

			dataDir, err := config.DataDir()
			if err != nil {
				return err
			}
			lock, err := store.AcquireSessionLock(dataDir)
			if err != nil {
				return err
			}
			defer func() {
				_ = lock.Release()
			}()

			recorder := history.Load(config.HistoryPath(dataDir), ctx.log)
			return runDownloads(ctx, settings, batches, recorder, plain)
		},
	}

	cmd.Flags().StringVarP(&destDir, "dest", "d", "", "destination directory (default: working directory)")
	cmd.Flags().StringVarP(&quality, "quality", "q", config.DefaultQuality, "quality tier: best, 1080p, 720p, 480p, audio")
	cmd.Flags().StringVar(&container, "container", config.DefaultContainer, "merge output container")
	cmd.Flags().IntVarP(&maxJobs, "jobs", "j", config.DefaultMaxConcurrent, "maximum concurrent downloads")
	cmd.Flags().BoolVarP(&numbering, "numbering", "n", false, "prefix output names with the batch position")
	cmd.Flags().BoolVar(&autoSubs, "auto-subs", false, "fetch auto-generated subtitles as .srt")
	cmd.Flags().BoolVar(&manualSubs, "subs", false, "fetch manually-authored subtitles")
	cmd.Flags().StringVar(&subLang, "sub-lang", model.SubLangDefault, "subtitle language code, or \"default\"")
	cmd.Flags().BoolVar(&thumbnail, "thumbnail", false, "fetch the thumbnail as .jpg")
	cmd.Flags().BoolVar(&metadata, "metadata", false, "fetch structured metadata as .info.json")
	cmd.Flags().BoolVar(&sponsor, "sponsorblock", false, "strip sponsor segments")
	cmd.Flags().StringVar(&archivePath, "archive", "", "download-archive file recording completed items")
	cmd.Flags().StringVar(&cookiesPath, "cookies", "", "cookie file passed through when it exists")
	cmd.Flags().BoolVar(&plain, "plain", false, "log plain lines instead of the live queue view")
	return cmd
}

// collectBatches groups arguments into batches: bare URLs submitted
// together form one batch, every .txt link list forms its own.
func collectBatches(args []string) ([][]string, error) {
	var urls []string
	var batches [][]string
	for _, arg := range args {
		if strings.HasSuffix(strings.ToLower(arg), ".txt") {
			links, err := batch.ReadLinks(arg)
			if err != nil {
				return nil, err
			}
			if len(links) > 0 {
				batches = append(batches, links)
			}
			continue
		}
		urls = append(urls, arg)
	}
	if len(urls) > 0 {
		batches = append([][]string{urls}, batches...)
	}
	return batches, nil
}

func runDownloads(ctx *rootContext, settings config.Settings, batches [][]string, recorder *history.Recorder, plain bool) error {
	opts := settings.Options()

	var jobs []model.Job
	for _, refs := range batches {
		jobs = append(jobs, model.NewBatch(refs, opts)...)
	}

	if plain {
		tally := &tallySink{inner: newLogSink(ctx.log)}
		eng := engine.New(settings.MaxConcurrent, recorder, tally, ctx.log)
		if err := eng.Submit(jobs); err != nil {
			return err
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			if _, ok := <-sigCh; ok {
				ctx.log.Info("stop requested, cancelling all jobs")
				eng.CancelAll()
			}
		}()

		eng.Wait()
		fmt.Println(tally.summary())
		return nil
	}

	sink := tui.NewSink()
	tally := &tallySink{inner: sink}
	eng := engine.New(settings.MaxConcurrent, recorder, tally, ctx.log)
	if err := eng.Submit(jobs); err != nil {
		return err
	}
	go func() {
		eng.Wait()
		sink.Done()
	}()
	if err := tui.Run(tui.NewModel(sink, eng)); err != nil {
		return fmt.Errorf("queue view: %w", err)
	}
	fmt.Println(tally.summary())
	return nil
}

// tallySink counts terminal states on top of an inner sink.
type tallySink struct {
	inner engine.Sink

	mu        sync.Mutex
	succeeded int
	failed    int
	cancelled int
}

func (t *tallySink) JobQueued(job model.Job)                 { t.inner.JobQueued(job) }
func (t *tallySink) JobStarted(job model.Job)                { t.inner.JobStarted(job) }
func (t *tallySink) JobProgress(ref string, percent float64) { t.inner.JobProgress(ref, percent) }
func (t *tallySink) JobLog(ref, line string)                 { t.inner.JobLog(ref, line) }

func (t *tallySink) JobFinished(ref, state string, rec model.OutcomeRecord) {
	t.mu.Lock()
	switch state {
	case model.StateSucceeded:
		t.succeeded++
	case model.StateFailed:
		t.failed++
	case model.StateCancelled:
		t.cancelled++
	}
	t.mu.Unlock()
	t.inner.JobFinished(ref, state, rec)
}

func (t *tallySink) summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fmt.Sprintf("done: %d succeeded, %d failed, %d cancelled", t.succeeded, t.failed, t.cancelled)
}

// logSink narrates engine events through the structured logger for
// plain (non-TUI) sessions.
type logSink struct {
	log *zap.Logger
}

func newLogSink(log *zap.Logger) *logSink {
	return &logSink{log: log}
}

func (s *logSink) JobQueued(job model.Job) {
	s.log.Debug("job queued", zap.String("source", job.SourceRef), zap.Int("index", job.SequenceIndex))
}

func (s *logSink) JobStarted(job model.Job) {
	s.log.Info("job started", zap.String("source", job.SourceRef))
}

func (s *logSink) JobProgress(ref string, percent float64) {}

func (s *logSink) JobLog(ref, line string) {
	s.log.Debug("yt-dlp", zap.String("source", ref), zap.String("line", line))
}

func (s *logSink) JobFinished(ref, state string, rec model.OutcomeRecord) {
	switch state {
	case model.StateSucceeded:
		s.log.Info("job succeeded", zap.String("source", ref), zap.String("output", rec.OutputPath))
	case model.StateCancelled:
		s.log.Info("job cancelled", zap.String("source", ref))
	default:
		s.log.Warn("job failed", zap.String("source", ref), zap.String("detail", rec.Detail))
	}
}
