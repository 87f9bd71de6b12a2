package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// testrunner executes test binaries built with `go test -c` (one per package,
// laid out under -tests-dir by package path), running unit tests in parallel
// and an optional integration selection serially.
func main() {
	var (
		testsDir        string
		shortFlag       bool
		pkgParallel     int
		count           int
		integrationRun  string
		integrationPath string
		verbose         bool
	)

	flag.StringVar(&testsDir, "tests-dir", "/app/tests", "directory containing compiled test binaries")
	flag.BoolVar(&shortFlag, "short", false, "run tests with -test.short (skips Stripe and database integration tests)")
	flag.IntVar(&pkgParallel, "pkg-parallel", runtime.NumCPU(), "number of packages to run in parallel")
	flag.IntVar(&count, "count", 1, "pass -test.count to disable caching when set to 1")
	flag.StringVar(&integrationRun, "integration-run", "", "regex of integration test(s) to run with -test.run, e.g. '_Integration$'")
	flag.StringVar(&integrationPath, "integration-path", "", "relative package path like 'api/router' for integration run")
	flag.BoolVar(&verbose, "v", true, "add -test.v to test binaries")
	flag.Parse()

	bins, err := collectTestBinaries(testsDir)
	if err != nil {
		fatal(err)
	}
	if len(bins) == 0 {
		fatal(errors.New("no test binaries found"))
	}

	integrationBin, err := resolveIntegrationBinary(testsDir, integrationRun, integrationPath)
	if err != nil {
		fatal(err)
	}

	fmt.Println("==> Running unit tests")
	unit := testArgs(verbose, shortFlag, count, 0)
	if err := runBinaries(excluding(bins, integrationBin), unit, pkgParallel); err != nil {
		fatal(err)
	}

	if integrationBin != "" {
		fmt.Printf("==> Running integration tests in %s with -test.run=%s\n", integrationPath, integrationRun)
		// Integration tests share one Stripe test account: force -test.parallel=1.
		args := append(testArgs(verbose, shortFlag, count, 1), "-test.run", integrationRun)
		if err := runBinaries([]string{integrationBin}, args, 1); err != nil {
			fatal(err)
		}
	}

	fmt.Println("==> All tests passed")
}

func resolveIntegrationBinary(testsDir, run, path string) (string, error) {
	if run == "" {
		return "", nil
	}
	if path == "" {
		return "", errors.New("integration-path is required when integration-run is set")
	}
	bin := filepath.Join(testsDir, filepath.FromSlash(path)+".test")
	if _, err := os.Stat(bin); err != nil {
		return "", fmt.Errorf("integration binary not found at %s: %w", bin, err)
	}
	return bin, nil
}

func collectTestBinaries(root string) ([]string, error) {
	var bins []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".test") {
			bins = append(bins, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(bins)
	return bins, nil
}

// excluding drops skip from bins so the integration package is not run twice.
func excluding(bins []string, skip string) []string {
	if skip == "" {
		return bins
	}
	out := make([]string, 0, len(bins))
	for _, b := range bins {
		if !sameFile(b, skip) {
			out = append(out, b)
		}
	}
	return out
}

func testArgs(verbose, short bool, count, testParallel int) []string {
	var args []string
	if verbose {
		args = append(args, "-test.v")
	}
	if short {
		args = append(args, "-test.short")
	}
	if count > 0 {
		args = append(args, fmt.Sprintf("-test.count=%d", count))
	}
	if testParallel > 0 {
		args = append(args, fmt.Sprintf("-test.parallel=%d", testParallel))
	}
	return args
}

// runBinaries runs every binary with args, at most parallel at a time, and
// returns the first failure after all have finished.
func runBinaries(bins []string, args []string, parallel int) error {
	if parallel < 1 {
		parallel = 1
	}
	var g errgroup.Group
	g.SetLimit(parallel)
	for _, b := range bins {
		b := b
		g.Go(func() error {
			cmd := exec.Command(b, args...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			cmd.Env = os.Environ()
			cmd.Dir = workDir(b)
			fmt.Printf("[RUN] %s %s\n", b, strings.Join(args, " "))
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("%s failed: %w", b, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// workDir runs a binary from the package-like directory next to it when one
// exists, so tests that look for .env or testdata resolve relative paths.
func workDir(bin string) string {
	if wd := strings.TrimSuffix(bin, ".test"); wd != bin {
		if fi, err := os.Stat(wd); err == nil && fi.IsDir() {
			return wd
		}
	}
	return "/app"
}

func sameFile(a, b string) bool {
	ap, _ := filepath.Abs(a)
	bp, _ := filepath.Abs(b)
	return ap == bp
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
