package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/baloola/naucse/internal/datasource"
	"github.com/baloola/naucse/pkg/config"
	"github.com/baloola/naucse/pkg/debug"
	"github.com/baloola/naucse/pkg/export"
	"github.com/baloola/naucse/pkg/hooks"
	"github.com/baloola/naucse/pkg/loader"
	"github.com/baloola/naucse/pkg/metrics"
	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/version"
	"github.com/baloola/naucse/pkg/watcher"
)

func main() {
	os.Exit(run())
}

// run is the single exit path: deferred cleanup (profile flushing in
// particular) runs before the process exits.
func run() int {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	buildFlag := flag.Bool("build", false, "Render the static site")
	lintFlag := flag.Bool("lint", false, "Validate content and report problems")
	previewFlag := flag.String("preview", "", "Render one lesson page to the terminal (LESSON[:PAGE])")
	watchFlag := flag.Bool("watch", false, "Rebuild when content changes (with -build)")
	bundleFlag := flag.String("bundle", "", "Write loaded content to a SQLite bundle at PATH")
	verifyBundle := flag.String("verify-bundle", "", "Compare the content directory against a bundle at PATH")
	contentDir := flag.String("content", "", "Content directory or bundle (default from naucse.yml)")
	outDir := flag.String("out", "", "Output directory (default from naucse.yml)")
	courseSlug := flag.String("course", "", "Restrict -build to one course slug")
	baseURL := flag.String("base-url", "", "URL prefix for generated pages (default from naucse.yml)")
	flag.Parse()

	if *cpuProfile != "" {
		stop, err := startCPUProfile(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer stop()
	}

	if *help {
		fmt.Println("Usage: naucse [options]")
		fmt.Println("\nA static site renderer for structured course content.")
		flag.PrintDefaults()
		return 0
	}

	if *versionFlag {
		fmt.Printf("naucse %s\n", version.Version)
		return 0
	}

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", config.ConfigFileName, err)
		return 1
	}
	if *contentDir != "" {
		cfg.Build.ContentDir = *contentDir
	}
	if *outDir != "" {
		cfg.Build.OutputDir = *outDir
	}
	if *baseURL != "" {
		cfg.Site.BaseURL = *baseURL
	}
	if *watchFlag {
		cfg.Watch.Enabled = true
	}

	opts := loader.Options{}

	switch {
	case *lintFlag:
		return runLint(cfg.Build.ContentDir)

	case *previewFlag != "":
		if err := runPreview(cfg.Build.ContentDir, *previewFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

	case *bundleFlag != "":
		root, err := datasource.Load(cfg.Build.ContentDir, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
			fmt.Fprintln(os.Stderr, "Make sure the content directory has courses/, runs/ or lessons/.")
			return 1
		}
		if err := datasource.WriteBundle(root, *bundleFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing bundle: %v\n", err)
			return 1
		}
		fmt.Printf("Bundle written to %s\n", *bundleFlag)

	case *verifyBundle != "":
		diff, err := datasource.CompareSources(cfg.Build.ContentDir, *verifyBundle, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Print(diff.Summary())
		if diff.HasInconsistencies() {
			return 1
		}

	case *buildFlag:
		if err := runBuild(cfg, *courseSlug, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if cfg.Watch.Enabled {
			if err := runWatch(cfg, *courseSlug, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
		}

	default:
		fmt.Fprintln(os.Stderr, "Nothing to do. Try 'naucse -build' or 'naucse -help'.")
		return 2
	}
	return 0
}

// startCPUProfile starts profiling into path. The returned stop function
// flushes the profile and closes the file.
func startCPUProfile(path string) (stop func(), err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func runBuild(cfg config.Config, courseSlug string, opts loader.Options) error {
	hookLoader, err := hooks.LoadDefault()
	if err != nil {
		return err
	}
	for _, w := range hookLoader.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	hookCtx := hooks.BuildContext{
		ContentDir: cfg.Build.ContentDir,
		OutputDir:  cfg.Build.OutputDir,
		Timestamp:  time.Now(),
	}
	executor := hooks.NewExecutor(hookLoader.Config(), hookCtx)
	if err := executor.RunPreBuild(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, executor.Summary())
		return err
	}

	root, err := datasource.Load(cfg.Build.ContentDir, opts)
	if err != nil {
		return err
	}

	e := export.New(cfg.Build.OutputDir,
		export.WithBaseURL(cfg.Site.BaseURL),
		export.WithContentDir(cfg.Build.ContentDir),
	)

	if courseSlug != "" {
		course, err := root.Course(courseSlug)
		if err != nil {
			return err
		}
		root = &loader.Root{
			Courses:  map[string]*model.Course{courseSlug: course},
			Licenses: root.Licenses,
			Lessons:  root.Lessons,
		}
	}

	if err := e.Export(root); err != nil {
		return err
	}
	fmt.Printf("Site written to %s (%d courses)\n", cfg.Build.OutputDir, len(root.Courses))

	executor = hooks.NewExecutor(hookLoader.Config(), hooks.BuildContext{
		ContentDir:  cfg.Build.ContentDir,
		OutputDir:   cfg.Build.OutputDir,
		CourseCount: len(root.Courses),
		Timestamp:   time.Now(),
	})
	if err := executor.RunPostBuild(context.Background()); err != nil {
		return err
	}
	for _, r := range executor.Results() {
		if r.Failed() {
			fmt.Fprintf(os.Stderr, "Hook %s failed: %v\n", r.Hook.Name, r.Err)
		}
	}

	for _, s := range metrics.AllTimingStats() {
		debug.Log("timing: %s count=%d total=%.1fms avg=%.1fms", s.Name, s.Count, s.TotalMs, s.AvgMs)
	}
	return nil
}

// runWatch rebuilds the site whenever the content tree changes. Blocks
// until interrupted.
func runWatch(cfg config.Config, courseSlug string, opts loader.Options) error {
	w, err := watcher.New(cfg.Build.ContentDir,
		watcher.WithForcePoll(cfg.Watch.ForcePoll),
		watcher.WithOnError(func(err error) {
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		}),
	)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	mode := "fsnotify"
	if w.IsPolling() {
		mode = "polling"
	}
	fmt.Printf("Watching %s (%s). Ctrl-C to stop.\n", cfg.Build.ContentDir, mode)

	for range w.Changed() {
		debug.Log("watch: content changed, rebuilding")
		if err := runBuild(cfg, courseSlug, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
		}
	}
	return nil
}
